package imagestore

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/Payphone-Digital/marketplace/config"
	"github.com/Payphone-Digital/marketplace/pkg/circuit"
	"github.com/Payphone-Digital/marketplace/pkg/pool"
	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
)

// StatusError is returned when the remote store answers with a non-2xx status.
type StatusError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("image store %s: status %d: %s", e.Op, e.StatusCode, e.Body)
}

// CloudinaryStore talks to the Cloudinary upload and admin APIs.
type CloudinaryStore struct {
	baseURL    string
	cloudName  string
	apiKey     string
	apiSecret  string
	httpClient *http.Client
	breaker    *circuit.Breaker
	pool       *pool.ConnectionPool
	logger     *zap.Logger
	now        func() time.Time
}

func NewCloudinaryStore(cfg config.ImageConfig, logger *zap.Logger) (*CloudinaryStore, error) {
	if cfg.CloudName == "" || cfg.APIKey == "" || cfg.APISecret == "" {
		return nil, errors.New("cloudinary store requires cloud name, api key and api secret")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = cfg.RetryMax
	retryClient.Logger = &leveledLogger{logger: logger.Sugar()}
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler
	poolConfig := pool.DefaultPoolConfig()
	poolConfig.RequestTimeout = cfg.RequestTimeout
	httpPool := pool.NewConnectionPool(poolConfig, logger)
	retryClient.HTTPClient = httpPool.GetHTTPClient(cfg.BaseURL)

	breakerConfig := circuit.DefaultConfig()
	breakerConfig.IsFailure = isRemoteFailure

	return &CloudinaryStore{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		cloudName:  cfg.CloudName,
		apiKey:     cfg.APIKey,
		apiSecret:  cfg.APISecret,
		httpClient: retryClient.StandardClient(),
		breaker:    circuit.NewBreaker("cloudinary", breakerConfig, logger),
		pool:       httpPool,
		logger:     logger,
		now:        time.Now,
	}, nil
}

// Close releases idle connections to the remote API.
func (s *CloudinaryStore) Close() error {
	s.pool.CloseIdleConnections()
	return nil
}

// Breaker exposes the guard around remote calls for health reporting.
func (s *CloudinaryStore) Breaker() *circuit.Breaker {
	return s.breaker
}

type uploadResponse struct {
	PublicID  string `json:"public_id"`
	SecureURL string `json:"secure_url"`
}

type destroyResponse struct {
	Result string `json:"result"`
}

func (s *CloudinaryStore) Upload(ctx context.Context, file *multipart.FileHeader, folder string) (Image, error) {
	body, contentType, err := s.uploadBody(file, folder)
	if err != nil {
		return Image{}, err
	}

	var image Image
	err = s.breaker.Execute(ctx, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint("image/upload"), bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", contentType)

		var resp uploadResponse
		if err := s.do(req, "upload", &resp); err != nil {
			return err
		}

		image = Image{PublicID: resp.PublicID, Folder: folder, SecureURL: resp.SecureURL}
		return nil
	})
	if err != nil {
		return Image{}, err
	}

	s.logger.Debug("Picture uploaded",
		zap.String("public_id", image.PublicID),
		zap.String("folder", folder),
	)
	return image, nil
}

func (s *CloudinaryStore) uploadBody(file *multipart.FileHeader, folder string) ([]byte, string, error) {
	src, err := file.Open()
	if err != nil {
		return nil, "", fmt.Errorf("open picture: %w", err)
	}
	defer src.Close()

	params := s.signedParams(map[string]string{"folder": folder})

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for _, k := range sortedKeys(params) {
		if err := w.WriteField(k, params[k]); err != nil {
			return nil, "", err
		}
	}
	part, err := w.CreateFormFile("file", file.Filename)
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(part, src); err != nil {
		return nil, "", fmt.Errorf("read picture: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return body.Bytes(), w.FormDataContentType(), nil
}

// Delete destroys the picture then removes its now empty folder.
func (s *CloudinaryStore) Delete(ctx context.Context, publicID, folder string) error {
	return s.breaker.Execute(ctx, func(ctx context.Context) error {
		form := url.Values{}
		for k, v := range s.signedParams(map[string]string{"public_id": publicID}) {
			form.Set(k, v)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint("image/destroy"), strings.NewReader(form.Encode()))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		var resp destroyResponse
		if err := s.do(req, "destroy", &resp); err != nil {
			return err
		}
		if resp.Result != "ok" && resp.Result != "not found" {
			return &StatusError{Op: "destroy", StatusCode: http.StatusOK, Body: resp.Result}
		}

		if folder == "" {
			return nil
		}

		req, err = http.NewRequestWithContext(ctx, http.MethodDelete, s.endpoint("folders/"+strings.TrimPrefix(folder, "/")), nil)
		if err != nil {
			return err
		}
		req.SetBasicAuth(s.apiKey, s.apiSecret)

		err = s.do(req, "delete folder", nil)
		var statusErr *StatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound {
			return nil
		}
		return err
	})
}

func (s *CloudinaryStore) endpoint(path string) string {
	return s.baseURL + "/" + s.cloudName + "/" + path
}

func (s *CloudinaryStore) do(req *http.Request, op string, out any) error {
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("image store %s: %w", op, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("image store %s: read response: %w", op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Op: op, StatusCode: resp.StatusCode, Body: string(data)}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("image store %s: decode response: %w", op, err)
	}
	return nil
}

// signedParams adds timestamp, api_key and the SHA-1 request signature.
func (s *CloudinaryStore) signedParams(params map[string]string) map[string]string {
	signed := make(map[string]string, len(params)+3)
	for k, v := range params {
		signed[k] = v
	}
	signed["timestamp"] = strconv.FormatInt(s.now().Unix(), 10)
	signed["signature"] = Sign(signed, s.apiSecret)
	signed["api_key"] = s.apiKey
	return signed
}

// Sign computes the Cloudinary signature over the sorted, non-empty parameters.
func Sign(params map[string]string, secret string) string {
	var parts []string
	for _, k := range sortedKeys(params) {
		if params[k] == "" {
			continue
		}
		parts = append(parts, k+"="+params[k])
	}
	sum := sha1.Sum([]byte(strings.Join(parts, "&") + secret))
	return hex.EncodeToString(sum[:])
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// isRemoteFailure keeps client-side rejections from opening the breaker.
func isRemoteFailure(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode >= 500 || statusErr.StatusCode == http.StatusTooManyRequests
	}
	return true
}

// leveledLogger adapts zap to retryablehttp.LeveledLogger.
type leveledLogger struct {
	logger *zap.SugaredLogger
}

func (l *leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	l.logger.Errorw(msg, keysAndValues...)
}

func (l *leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Infow(msg, keysAndValues...)
}

func (l *leveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.logger.Debugw(msg, keysAndValues...)
}

func (l *leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.logger.Warnw(msg, keysAndValues...)
}
