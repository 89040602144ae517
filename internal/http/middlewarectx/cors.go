package middlewarectx

import (
	"net/http"
	"strings"
)

const (
	allowHeaders        = "authorization, x-client-info, apikey, content-type"
	sessionAllowHeaders = allowHeaders + ", x-guest-id, x-guest-key"
)

// CORS добавляет заголовки CORS к каждому ответу и отвечает на preflight-запросы пустым 200.
// Маршрутам гостевой сессии дополнительно разрешены заголовки X-Guest-Id и X-Guest-Key.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		headers := allowHeaders
		if strings.HasPrefix(r.URL.Path, "/session") {
			headers = sessionAllowHeaders
		}
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", headers)
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
