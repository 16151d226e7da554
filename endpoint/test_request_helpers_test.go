package endpoint

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
)

// requestSpec describes a single HTTP request against a test router.
// registerPath is the gin route pattern, requestPath the concrete URL.
type requestSpec struct {
	method       string
	registerPath string
	requestPath  string
	handler      gin.HandlerFunc
	body         interface{}
	headers      map[string]string
}

func encodeBody(body interface{}) (*bytes.Reader, bool) {
	switch v := body.(type) {
	case nil:
		return bytes.NewReader(nil), false
	case string:
		return bytes.NewReader([]byte(v)), true
	case []byte:
		return bytes.NewReader(v), true
	default:
		b, _ := json.Marshal(v)
		return bytes.NewReader(b), true
	}
}

// performRequest serves the request and decodes the JSON body, if any.
func performRequest(r *gin.Engine, spec requestSpec) (*httptest.ResponseRecorder, map[string]interface{}, error) {
	reader, isJSON := encodeBody(spec.body)

	req := httptest.NewRequest(spec.method, spec.requestPath, reader)
	if isJSON {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, value := range spec.headers {
		req.Header.Set(key, value)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var response map[string]interface{}
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
			return w, nil, err
		}
	}
	return w, response, nil
}

// doRequestWithHandler registers the handler on the router first, then performs
// the request. Useful for exercising a single handler in isolation.
func doRequestWithHandler(r *gin.Engine, spec requestSpec) (*httptest.ResponseRecorder, map[string]interface{}, error) {
	switch spec.method {
	case http.MethodGet:
		r.GET(spec.registerPath, spec.handler)
	case http.MethodPost:
		r.POST(spec.registerPath, spec.handler)
	case http.MethodPut:
		r.PUT(spec.registerPath, spec.handler)
	case http.MethodDelete:
		r.DELETE(spec.registerPath, spec.handler)
	default:
		r.Handle(spec.method, spec.registerPath, spec.handler)
	}
	return performRequest(r, spec)
}
