package http

import (
	"errors"
	"net/http"
	"sync"

	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/gorillamux"
)

// contractRouter matches requests against the embedded OpenAPI document.
var contractRouter = sync.OnceValues(func() (routers.Router, error) {
	swagger, err := GetSwagger()
	if err != nil {
		return nil, err
	}
	return gorillamux.NewRouter(swagger)
})

// requestValidator rejects requests that break the OpenAPI contract (bad JSON,
// missing fields, wrong content type) with a 400 before the handler runs.
func requestValidator() (MiddlewareFunc, error) {
	router, err := contractRouter()
	if err != nil {
		return nil, err
	}
	opts := &openapi3filter.Options{AuthenticationFunc: openapi3filter.NoopAuthenticationFunc}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			route, params, err := router.FindRoute(r)
			if err != nil {
				// Only contract routes are wrapped, so a miss is not the client's fault.
				next.ServeHTTP(w, r)
				return
			}
			err = openapi3filter.ValidateRequest(r.Context(), &openapi3filter.RequestValidationInput{
				Request:    r,
				PathParams: params,
				Route:      route,
				Options:    opts,
			})
			if err != nil {
				writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: validationMessage(err)})
				return
			}
			next.ServeHTTP(w, r)
		})
	}, nil
}

func validationMessage(err error) string {
	var reqErr *openapi3filter.RequestError
	if errors.As(err, &reqErr) && reqErr.Reason != "" {
		if reqErr.Parameter != nil {
			return "invalid " + reqErr.Parameter.Name + ": " + reqErr.Reason
		}
		return "invalid request body: " + reqErr.Reason
	}
	return "invalid request: " + err.Error()
}

// writeParamError reports path parameters that could not be bound.
func writeParamError(w http.ResponseWriter, r *http.Request, err error) {
	writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
}
