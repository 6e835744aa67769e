package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/maiopinion/internal/http/handlers"
	httpMW "github.com/yungbote/maiopinion/internal/http/middleware"
	"github.com/yungbote/maiopinion/internal/platform/logger"
)

type RouterConfig struct {
	Log         *logger.Logger
	ServiceName string
	CORSOrigins []string
	Metrics     httpMW.RequestObserver
	MetricsHTTP http.Handler

	HealthHandler   *httpH.HealthHandler
	DiagnoseHandler *httpH.DiagnoseHandler
	PatientHandler  *httpH.PatientHandler
	ReminderHandler *httpH.ReminderHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	if cfg.MetricsHTTP != nil {
		r.GET("/metrics", gin.WrapH(cfg.MetricsHTTP))
	}

	api := r.Group("/api")
	{
		if cfg.HealthHandler != nil {
			api.GET("/health", cfg.HealthHandler.HealthCheck)
		}
		if cfg.DiagnoseHandler != nil {
			api.POST("/diagnose", cfg.DiagnoseHandler.Diagnose)
		}
		if cfg.PatientHandler != nil {
			api.GET("/patients", cfg.PatientHandler.List)
			api.GET("/patients/stats", cfg.PatientHandler.Stats)
			api.GET("/patients/:id", cfg.PatientHandler.Get)
		}
		if cfg.ReminderHandler != nil {
			api.POST("/reminders/send", cfg.ReminderHandler.Send)
		}
	}

	return r
}
