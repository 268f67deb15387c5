package handler

import (
	"net/http"

	"github.com/zeromicro/go-zero/rest/httpx"

	"financeeye-api/internal/logic"
	"financeeye-api/internal/svc"
)

func MarketsHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		l := logic.NewMarketsLogic(r.Context(), svcCtx)
		httpx.OkJson(w, l.Markets())
	}
}
