package middleware

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Payphone-Digital/marketplace/internal/constants"
	"github.com/Payphone-Digital/marketplace/pkg/validation"
	"github.com/gin-gonic/gin"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

func publishRules() []validation.Descriptor {
	return []validation.Descriptor{
		validation.TitleRule(),
		validation.DescriptionRule(),
		validation.PriceRule(),
		validation.PictureRule(1024, []string{"image/png", "image/jpeg"}),
	}
}

// publishRouter echoes the checked title and price.
func publishRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/publish", RequireParams(publishRules()...), func(c *gin.Context) {
		params := CheckedParams(c)
		c.JSON(http.StatusOK, gin.H{
			"title":       params[constants.FieldTitle].Text(),
			"price":       params[constants.FieldPrice].Float(),
			"has_picture": params[constants.FieldPicture].File() != nil,
			"brand":       BodyString(c, constants.FieldBrand),
		})
	})
	return r
}

func multipartRequest(t *testing.T, fields map[string]string, picture []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("WriteField: %v", err)
		}
	}
	if picture != nil {
		part, err := w.CreateFormFile(constants.FieldPicture, "picture.bin")
		if err != nil {
			t.Fatalf("CreateFormFile: %v", err)
		}
		part.Write(picture)
	}
	w.Close()

	req := httptest.NewRequest(http.MethodPost, "/publish", &buf)
	req.Header.Set(constants.HeaderContentType, w.FormDataContentType())
	return req
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response: %v (%s)", err, w.Body.String())
	}
	return out
}

func TestRequireParams_Multipart(t *testing.T) {
	valid := map[string]string{"title": "Jean", "description": "Blue jean", "price": "20", "brand": "Levis"}

	tests := []struct {
		name    string
		fields  map[string]string
		picture []byte
		status  int
		message string
	}{
		{"valid without picture", valid, nil, http.StatusOK, ""},
		{"valid with picture", valid, pngHeader, http.StatusOK, ""},
		{"missing title", map[string]string{"description": "d", "price": "1"}, nil, http.StatusBadRequest, "The title is required"},
		{"description too long", map[string]string{"title": "t", "description": strings.Repeat("a", 501), "price": "1"}, nil, http.StatusBadRequest, "The description must contain between 1 and 500 characters"},
		{"price above max", map[string]string{"title": "t", "description": "d", "price": "100001"}, nil, http.StatusBadRequest, "The price must be between 0 and 100000"},
		{"picture not an image", valid, []byte("just some text"), http.StatusBadRequest, "The picture must be an image"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			publishRouter().ServeHTTP(w, multipartRequest(t, tt.fields, tt.picture))

			if w.Code != tt.status {
				t.Fatalf("Expected %d, got %d: %s", tt.status, w.Code, w.Body.String())
			}
			body := decodeBody(t, w)
			if tt.message != "" && body["message"] != tt.message {
				t.Errorf("Expected message %q, got %v", tt.message, body["message"])
			}
			if tt.status == http.StatusOK {
				if body["title"] != "Jean" || body["price"] != float64(20) || body["brand"] != "Levis" {
					t.Errorf("Unexpected echoed params %v", body)
				}
				if body["has_picture"] != (tt.picture != nil) {
					t.Errorf("Unexpected has_picture %v", body["has_picture"])
				}
			}
		})
	}
}

func TestRequireParams_JSONBody(t *testing.T) {
	payload := `{"title":"Jean","description":"Blue jean","price":20.5,"brand":"Levis"}`
	req := httptest.NewRequest(http.MethodPost, "/publish", strings.NewReader(payload))
	req.Header.Set(constants.HeaderContentType, constants.ContentTypeJSON)

	w := httptest.NewRecorder()
	publishRouter().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	if body["price"] != 20.5 || body["brand"] != "Levis" {
		t.Errorf("Unexpected echoed params %v", body)
	}
}

func TestBodyString_JSONScalars(t *testing.T) {
	tests := []struct {
		name  string
		brand string
		want  string
	}{
		{"string", `"Levis"`, "Levis"},
		{"integer", `42`, "42"},
		{"decimal", `38.5`, "38.5"},
		{"bool", `true`, "true"},
		{"null", `null`, ""},
		{"object", `{"name":"Levis"}`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := `{"title":"Jean","description":"Blue jean","price":20,"brand":` + tt.brand + `}`
			req := httptest.NewRequest(http.MethodPost, "/publish", strings.NewReader(payload))
			req.Header.Set(constants.HeaderContentType, constants.ContentTypeJSON)

			w := httptest.NewRecorder()
			publishRouter().ServeHTTP(w, req)

			if w.Code != http.StatusOK {
				t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
			}
			if got := decodeBody(t, w)["brand"]; got != tt.want {
				t.Errorf("Expected brand %q, got %v", tt.want, got)
			}
		})
	}
}

func TestRequireParams_JSONTitleMustBeString(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/publish", strings.NewReader(`{"title":42,"description":"d","price":1}`))
	req.Header.Set(constants.HeaderContentType, constants.ContentTypeJSON)

	w := httptest.NewRecorder()
	publishRouter().ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", w.Code)
	}
}

func TestCheckParams_NeverRejects(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/offers", func(c *gin.Context) {
		params := CheckParams(c,
			validation.PriceMinRule(),
			validation.SortRule(),
			validation.PageRule(),
		)
		c.JSON(http.StatusOK, gin.H{
			"min_valid":  params[constants.QueryParamPriceMin].Valid,
			"sort":       params[constants.QueryParamSort].Text(),
			"page_valid": params[constants.QueryParamPage].Valid,
		})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/offers?priceMin=abc&sort=price-asc&page=0", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	body := decodeBody(t, w)
	if body["min_valid"] != false || body["page_valid"] != false {
		t.Errorf("Expected invalid min and page, got %v", body)
	}
	if body["sort"] != constants.OrderAsc {
		t.Errorf("Expected remapped sort, got %v", body["sort"])
	}
}
