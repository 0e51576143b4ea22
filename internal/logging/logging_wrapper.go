package logging

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

// LoggingWrapper adapts a handler that reports failures as errors into an
// http.HandlerFunc. Each request gets its own LogData.
func LoggingWrapper(
	loggingName string,
	log *logrus.Logger,
	handler func(http.ResponseWriter, *http.Request, *LogData) error,
) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		logData := NewLogData(log)
		logData.AddData("handler", loggingName)

		endTimer := logData.AddTiming("duration")
		err := handler(w, req, logData)
		endTimer()
		if err != nil {
			logData.Log().WithError(err).Errorf("Handler.%v.Error", loggingName)
			return
		}

		logData.Log().Debugf("Handler.%v.Complete", loggingName)
	}
}

// RequestLogger attaches a LogData to every request context and emits it
// once the response is written. Handlers add fields through GetLogData.
func RequestLogger(log *logrus.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			logData := NewLogData(log)
			logData.AddData("method", req.Method)
			logData.AddData("path", req.URL.Path)
			if requestID := middleware.GetReqID(req.Context()); requestID != "" {
				logData.AddData("requestID", requestID)
			}
			log.WithField("path", req.URL.Path).Debugf("Handler.%v %v.Start", req.Method, req.URL.Path)

			ww := middleware.NewWrapResponseWriter(w, req.ProtoMajor)
			endTimer := logData.AddTiming("durationMs")
			next.ServeHTTP(ww, req.WithContext(WithLogData(req.Context(), logData)))
			endTimer()

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			logData.AddData("status", status)
			name := routeName(req)
			entry := logData.Log()
			switch {
			case status >= http.StatusInternalServerError:
				entry.Errorf("Handler.%v.Error", name)
			case status >= http.StatusBadRequest:
				entry.Warnf("Handler.%v.Error", name)
			default:
				entry.Infof("Handler.%v.Complete", name)
			}
		})
	}
}

func routeName(req *http.Request) string {
	if routeCtx := chi.RouteContext(req.Context()); routeCtx != nil {
		if pattern := routeCtx.RoutePattern(); pattern != "" {
			return req.Method + " " + pattern
		}
	}
	return req.Method + " " + req.URL.Path
}
