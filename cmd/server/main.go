package main

import (
	"flag"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/hackfair/domare/internal/app"
	"github.com/hackfair/domare/internal/handlers"
)

func main() {
	var configPath = flag.String("config", "config.toml", "Path to config file")
	flag.Parse()

	service, err := app.NewService(*configPath)
	if err != nil {
		logger.Error.Fatalf("Failed to start service: %v", err)
	}
	defer service.Close()

	studentHandler := handlers.NewStudentHandler(service)
	judgeHandler := handlers.NewJudgeHandler(service)
	eventHandler := handlers.NewEventHandler(service)
	projectHandler := handlers.NewProjectHandler(service)
	reviewHandler := handlers.NewReviewHandler(service)
	analyticsHandler := handlers.NewAnalyticsHandler(service)

	routes := map[string]http.HandlerFunc{
		"POST /api/student/login":    studentHandler.HandleLogin,
		"POST /api/student/register": studentHandler.HandleRegister,
		"PUT /api/student/update":    studentHandler.HandleUpdateProfile,

		"GET /api/judges":         judgeHandler.HandleList,
		"POST /api/judges":        judgeHandler.HandleCreate,
		"DELETE /api/judges/{id}": judgeHandler.HandleDelete,
		"PUT /api/judge/update":   judgeHandler.HandleUpdate,
		"POST /api/judge/login":   judgeHandler.HandleLogin,
		"POST /api/judge_event":   judgeHandler.HandleAssign,

		"GET /api/events":                 eventHandler.HandleList,
		"POST /api/events":                eventHandler.HandleCreate,
		"PUT /api/events/{id}":            eventHandler.HandleUpdate,
		"DELETE /api/events/{id}":         eventHandler.HandleDelete,
		"GET /api/events/judge/{judgeId}": judgeHandler.HandleAssignedEvents,

		"GET /api/projects":                     projectHandler.HandleList,
		"POST /api/projects":                    projectHandler.HandleCreate,
		"DELETE /api/projects/{id}":             projectHandler.HandleDelete,
		"GET /api/projects/event/{eventId}":     projectHandler.HandleListByEvent,
		"GET /api/projects/student/{studentId}": projectHandler.HandleListByStudent,
		"GET /api/project/{id}":                 projectHandler.HandleDetail,
		"POST /api/projects/review":             reviewHandler.HandleSubmit,

		"GET /api/leaderboard":     analyticsHandler.HandleLeaderboard,
		"GET /api/admin/analytics": analyticsHandler.HandleSummary,
	}
	for pattern, handler := range routes {
		http.HandleFunc(pattern, handlers.WithMetrics(pattern, handler))
	}

	http.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	http.Handle("/metrics", promhttp.Handler())

	logger.Info.Printf("Starting domare server on %s", service.Config.Server.Port)
	logger.Debug.Printf("Judge delete policy: %s", service.Config.Retention.JudgeDeletePolicy)
	if err := http.ListenAndServe(service.Config.Server.Port, nil); err != nil {
		logger.Error.Fatalf("Domare server failed: %v", err)
	}
}
