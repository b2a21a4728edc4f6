package internal

import (
	"net/http"

	"scoringd/internal/controllers"
	"scoringd/internal/providers"
)

func InitRoutes(apiController *controllers.ApiController) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Post("/engagement", http.HandlerFunc(apiController.ReceiveEngagement))
	routers.Get("/performance", http.HandlerFunc(apiController.GetPerformance))
	routers.Get("/growth", http.HandlerFunc(apiController.GetGrowth))
	routers.Get("/subjects", http.HandlerFunc(apiController.GetSubjects))
	routers.Post("/content/score", http.HandlerFunc(apiController.ScoreContent))
	routers.Post("/trends/forecast", http.HandlerFunc(apiController.ForecastTrends))
	return routers
}
