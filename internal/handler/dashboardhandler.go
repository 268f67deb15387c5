package handler

import (
	"net/http"

	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/rest/httpx"

	"financeeye-api/internal/logic"
	"financeeye-api/internal/svc"
	"financeeye-api/internal/types"
	"financeeye-api/pkg/market"
)

// DashboardHandler serves the dashboard payload. Error classes map to
// distinct statuses: bad input is 400, exhausted data lookups are 422 with a
// hint, anything else is a generic 500 with the detail kept in the logs.
func DashboardHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.DashboardRequest
		if err := httpx.Parse(r, &req); err != nil {
			httpx.WriteJson(w, http.StatusBadRequest, types.ErrorBody{Error: err.Error()})
			return
		}

		l := logic.NewDashboardLogic(r.Context(), svcCtx)
		resp, err := l.Dashboard(&req)
		if err == nil {
			httpx.OkJson(w, resp)
			return
		}

		switch {
		case logic.IsValidation(err):
			httpx.WriteJson(w, http.StatusBadRequest, types.ErrorBody{Error: err.Error()})
		case market.IsDataUnavailable(err):
			httpx.WriteJson(w, http.StatusUnprocessableEntity, types.ErrorBody{
				Error: err.Error(),
				Hint:  logic.VenueHint(req.Market),
			})
		default:
			logx.WithContext(r.Context()).Errorf("dashboard request failed: %v", err)
			httpx.WriteJson(w, http.StatusInternalServerError, types.ErrorBody{
				Error: "unexpected error while fetching data",
			})
		}
	}
}
