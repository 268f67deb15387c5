package handler

import (
	"net/http"

	"github.com/zeromicro/go-zero/rest"

	"financeeye-api/internal/svc"
)

func RegisterHandlers(server *rest.Server, serverCtx *svc.ServiceContext) {
	server.AddRoutes(
		[]rest.Route{
			{
				Method:  http.MethodGet,
				Path:    "/api/dashboard",
				Handler: DashboardHandler(serverCtx),
			},
			{
				Method:  http.MethodGet,
				Path:    "/api/markets",
				Handler: MarketsHandler(serverCtx),
			},
			{
				Method:  http.MethodGet,
				Path:    "/healthz",
				Handler: HealthHandler(serverCtx),
			},
		},
	)
}
