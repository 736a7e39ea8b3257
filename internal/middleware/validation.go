package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/Payphone-Digital/marketplace/internal/constants"
	"github.com/Payphone-Digital/marketplace/pkg/logger"
	"github.com/Payphone-Digital/marketplace/pkg/validation"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Params maps a parameter name to its check result.
type Params map[string]validation.Result

// RequireParams rejects the request with 400 on the first blocking result.
// The results are stored for the handler, see CheckedParams.
func RequireParams(descs ...validation.Descriptor) gin.HandlerFunc {
	return func(c *gin.Context) {
		params := make(Params, len(descs))
		for _, d := range descs {
			result := validation.Check(d, ReadParam(c, d))
			if result.Blocks(d) {
				logger.GetLogger().Warn("Middleware: Request validation failed",
					zap.String("client_ip", c.ClientIP()),
					zap.String("path", c.Request.URL.Path),
					zap.String("field", result.Err.Field),
					zap.String("tag", result.Err.Tag),
				)
				c.AbortWithStatusJSON(http.StatusBadRequest, constants.BuildErrorResponse(result.Err.Message))
				return
			}
			params[d.Name] = result
		}

		c.Set(constants.GinKeyParams, params)
		c.Next()
	}
}

// CheckParams checks every descriptor and never rejects. Callers decide
// what an invalid result means.
func CheckParams(c *gin.Context, descs ...validation.Descriptor) Params {
	params := make(Params, len(descs))
	for _, d := range descs {
		result := validation.Check(d, ReadParam(c, d))
		if !result.Valid && result.Present {
			logger.GetLogger().Debug("Middleware: Ignoring invalid parameter",
				zap.String("path", c.Request.URL.Path),
				zap.String("field", result.Err.Field),
				zap.String("tag", result.Err.Tag),
			)
		}
		params[d.Name] = result
	}
	return params
}

// CheckedParams returns the results stored by RequireParams.
func CheckedParams(c *gin.Context) Params {
	if v, ok := c.Get(constants.GinKeyParams); ok {
		if params, ok := v.(Params); ok {
			return params
		}
	}
	return Params{}
}

// ReadParam fetches the raw value for d from its source.
func ReadParam(c *gin.Context, d validation.Descriptor) validation.Raw {
	switch d.Source {
	case validation.SourceQuery:
		if v, ok := c.GetQuery(d.Name); ok {
			return validation.Raw{Present: true, Value: v}
		}
	case validation.SourceBody:
		if v, ok := bodyValue(c, d.Name); ok {
			return validation.Raw{Present: true, Value: v}
		}
	case validation.SourceFiles:
		if fh, err := c.FormFile(d.Name); err == nil {
			return validation.Raw{Present: true, Value: fh.Filename, File: fh}
		}
	}
	return validation.Raw{}
}

// BodyString returns a body field as text. JSON numbers and booleans are
// rendered as sent; absent, null and structured values give "".
func BodyString(c *gin.Context, name string) string {
	v, _ := bodyValue(c, name)
	switch s := v.(type) {
	case string:
		return s
	case json.Number:
		return s.String()
	case bool:
		return strconv.FormatBool(s)
	}
	return ""
}

func bodyValue(c *gin.Context, name string) (any, bool) {
	if c.ContentType() == constants.ContentTypeJSON {
		body := jsonBody(c)
		v, ok := body[name]
		return v, ok
	}
	return c.GetPostForm(name)
}

// jsonBody decodes the JSON body once per request and restores it for later readers.
func jsonBody(c *gin.Context) map[string]any {
	if v, ok := c.Get(constants.GinKeyBody); ok {
		if body, ok := v.(map[string]any); ok {
			return body
		}
	}

	body := map[string]any{}
	if c.Request.Body != nil {
		raw, err := io.ReadAll(c.Request.Body)
		if err != nil {
			logger.GetLogger().Warn("Middleware: Failed to read request body",
				zap.String("path", c.Request.URL.Path),
				zap.Error(err),
			)
		}
		c.Request.Body = io.NopCloser(bytes.NewBuffer(raw))

		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.UseNumber()
		if len(raw) > 0 {
			if err := dec.Decode(&body); err != nil {
				logger.GetLogger().Debug("Middleware: Body is not a JSON object",
					zap.String("path", c.Request.URL.Path),
					zap.Error(err),
				)
				body = map[string]any{}
			}
		}
	}

	c.Set(constants.GinKeyBody, body)
	return body
}
