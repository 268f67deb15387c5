package handler

import (
	"net/http"

	"github.com/zeromicro/go-zero/rest/httpx"

	"financeeye-api/internal/svc"
)

func HealthHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.OkJson(w, map[string]string{
			"status": "ok",
			"env":    svcCtx.Config.Env,
		})
	}
}
