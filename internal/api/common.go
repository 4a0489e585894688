// Package api 提供管理网关的 HTTP 处理器。每个请求挂载一个新的资源页面，
// 拉取后端数据后在内存中筛选分页，变更操作需要显式确认。
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/nguyenthanhphat1510/tp-shop-admin/internal/backend"
	"github.com/nguyenthanhphat1510/tp-shop-admin/internal/confirm"
	"github.com/nguyenthanhphat1510/tp-shop-admin/internal/domain"
	"github.com/nguyenthanhphat1510/tp-shop-admin/internal/listview"
	"github.com/nguyenthanhphat1510/tp-shop-admin/internal/middleware"
	"github.com/nguyenthanhphat1510/tp-shop-admin/internal/resp"
	"github.com/nguyenthanhphat1510/tp-shop-admin/internal/service"
)

// Backend 处理器依赖的后端资源接口
type Backend struct {
	Categories    service.CategoryAPI
	Subcategories service.SubcategoryAPI
	Products      service.ProductAPI
	Variants      service.VariantAPI
	Orders        service.OrderAPI
}

// NewBackend 由后端客户端组装资源接口
func NewBackend(c *backend.Client) Backend {
	return Backend{
		Categories:    c.Categories(),
		Subcategories: c.Subcategories(),
		Products:      c.Products(),
		Variants:      c.Variants(),
		Orders:        c.Orders(),
	}
}

// ListOptions 分页参数的默认值与上限
type ListOptions struct {
	DefaultPageSize int
	MaxPageSize     int
}

// base 各资源处理器共享的依赖
type base struct {
	be     Backend
	list   ListOptions
	logger *zap.Logger
	opts   []service.Option
}

func newBase(be Backend, list ListOptions, logger *zap.Logger, opts []service.Option) base {
	if list.DefaultPageSize <= 0 {
		list.DefaultPageSize = listview.DefaultPageSize
	}
	if list.MaxPageSize < list.DefaultPageSize {
		list.MaxPageSize = list.DefaultPageSize
	}
	return base{be: be, list: list, logger: logger, opts: opts}
}

// listQuery 从查询参数解析筛选条件与分页
type listQuery struct {
	Criteria listview.Criteria
	Page     int
	PageSize int
}

func (b base) parseListQuery(r *http.Request) (listQuery, error) {
	q := r.URL.Query()
	out := listQuery{Page: 1, PageSize: b.list.DefaultPageSize}
	for _, f := range listview.Fields {
		if v := strings.TrimSpace(q.Get(f)); v != "" {
			_ = out.Criteria.Set(f, v)
		}
	}
	if v := q.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return out, errors.New("invalid page")
		}
		out.Page = n
	}
	if v := q.Get("pageSize"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return out, errors.New("invalid pageSize")
		}
		out.PageSize = min(n, b.list.MaxPageSize)
	}
	return out, nil
}

// confirmed 请求是否携带 confirm=true（查询参数或 X-Confirm 头）
func confirmed(r *http.Request) bool {
	v := r.URL.Query().Get("confirm")
	if v == "" {
		v = r.Header.Get("X-Confirm")
	}
	ok, _ := strconv.ParseBool(v)
	return ok
}

// gate 网关形式的确认：请求已确认则放行，否则记录提示用于 428 响应
func gate(r *http.Request) *confirm.Recorder {
	return &confirm.Recorder{Answer: confirmed(r)}
}

// conflictData 业务约束冲突的附加信息
type conflictData struct {
	Kind backend.Kind `json:"kind"`
}

// writeError 把页面/后端错误映射为 HTTP 响应。后端消息原样返回
func (b base) writeError(w http.ResponseWriter, r *http.Request, err error, rec *confirm.Recorder) {
	reqID := middleware.RequestIDFromContext(r.Context())
	if middleware.HandleTimeout(w, r) {
		b.logger.Warn("request timed out", zap.String("request_id", reqID), zap.Error(err))
		return
	}

	var (
		verr  *domain.ValidationError
		terr  *domain.TransitionError
		apiEr *backend.APIError
	)
	switch {
	case errors.As(err, &verr):
		resp.ErrorWithData(w, http.StatusBadRequest, resp.CodeInvalidParam, verr.Error(), verr, reqID, "")
	case errors.Is(err, service.ErrNotConfirmed):
		var data any
		if rec != nil {
			if p, ok := rec.Last(); ok {
				data = p
			}
		}
		resp.ErrorWithData(w, http.StatusPreconditionRequired, resp.CodeConfirmRequired,
			"confirmation required, resend with confirm=true", data, reqID, "")
	case errors.Is(err, service.ErrRowNotLoaded):
		resp.Error(w, http.StatusNotFound, resp.CodeNotFound, "record not found", reqID, "")
	case errors.Is(err, service.ErrBusy):
		resp.Error(w, http.StatusConflict, resp.CodeConflict, err.Error(), reqID, "")
	case errors.As(err, &terr):
		resp.Error(w, http.StatusUnprocessableEntity, resp.CodeInvalidParam, terr.Error(), reqID, "")
	case errors.As(err, &apiEr):
		b.writeAPIError(w, reqID, apiEr)
	default:
		b.logger.Error("request failed", zap.String("request_id", reqID), zap.Error(err))
		resp.Error(w, http.StatusInternalServerError, resp.CodeInternalError, "internal server error", reqID, "")
	}
}

func (b base) writeAPIError(w http.ResponseWriter, reqID string, e *backend.APIError) {
	switch {
	case e.IsDomainConstraint():
		b.logger.Info("backend rejected by constraint",
			zap.String("request_id", reqID), zap.String("kind", string(e.Kind)), zap.String("message", e.Message))
		resp.ErrorWithData(w, http.StatusConflict, resp.CodeConflict, e.Message, conflictData{Kind: e.Kind}, reqID, "")
	case e.Kind == backend.KindNetwork || e.Status < http.StatusBadRequest:
		b.logger.Warn("backend unreachable", zap.String("request_id", reqID), zap.String("message", e.Message))
		resp.Error(w, http.StatusBadGateway, resp.CodeUpstream, e.Message, reqID, "")
	default:
		b.logger.Warn("backend error",
			zap.String("request_id", reqID), zap.Int("status", e.Status), zap.String("message", e.Message))
		resp.ErrorWithData(w, e.Status, resp.CodeUpstream, e.Message, conflictData{Kind: e.Kind}, reqID, "")
	}
}

// lister 可加载并分页的资源页面
type lister[T any] interface {
	Load(ctx context.Context) error
	List(c listview.Criteria, page, pageSize int) listview.Page[T]
	Get(id string) (T, bool)
}

// serveList 加载页面并按查询参数返回一页：{items, page, pageSize, totalItems, totalPages, ...}
func serveList[T any](b base, w http.ResponseWriter, r *http.Request, s lister[T]) {
	reqID := middleware.RequestIDFromContext(r.Context())
	q, err := b.parseListQuery(r)
	if err != nil {
		resp.Error(w, http.StatusBadRequest, resp.CodeInvalidParam, err.Error(), reqID, "")
		return
	}
	if err := s.Load(r.Context()); err != nil {
		b.writeError(w, r, err, nil)
		return
	}
	resp.OK(w, s.List(q.Criteria, q.Page, q.PageSize), reqID, "")
}

// serveGet 加载页面后返回单行
func serveGet[T any](b base, w http.ResponseWriter, r *http.Request, s lister[T], id string) {
	if err := s.Load(r.Context()); err != nil {
		b.writeError(w, r, err, nil)
		return
	}
	row, ok := s.Get(id)
	if !ok {
		b.writeError(w, r, service.ErrRowNotLoaded, nil)
		return
	}
	resp.OK(w, row, middleware.RequestIDFromContext(r.Context()), "")
}

// mutation 一次变更请求：先加载页面，再执行带确认的操作，成功后返回 result 的结果
type mutation struct {
	load   func(ctx context.Context) error
	run    func(ctx context.Context, cf confirm.Confirmer) error
	result func() any
	status int
}

func (b base) serveMutation(w http.ResponseWriter, r *http.Request, m mutation) {
	reqID := middleware.RequestIDFromContext(r.Context())
	rec := gate(r)
	if m.load != nil {
		if err := m.load(r.Context()); err != nil {
			b.writeError(w, r, err, nil)
			return
		}
	}
	if err := m.run(r.Context(), rec); err != nil {
		b.writeError(w, r, err, rec)
		return
	}

	var data any
	if m.result != nil {
		data = m.result()
	}
	b.logger.Info("mutation applied",
		zap.String("request_id", reqID),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	)
	if m.status == http.StatusCreated {
		resp.Created(w, data, reqID, "")
		return
	}
	resp.OK(w, data, reqID, "")
}

// addedRows 返回 after 中不在 before 里的行，用于取回新建的记录
func addedRows[T any](before, after []T, key func(T) string) []T {
	seen := make(map[string]struct{}, len(before))
	for _, r := range before {
		seen[key(r)] = struct{}{}
	}
	out := make([]T, 0, 1)
	for _, r := range after {
		if _, ok := seen[key(r)]; !ok {
			out = append(out, r)
		}
	}
	return out
}

// decodeJSON 解析 JSON 请求体，失败时写出 400
func (b base) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		reqID := middleware.RequestIDFromContext(r.Context())
		b.logger.Warn("invalid request body", zap.String("request_id", reqID), zap.Error(err))
		resp.Error(w, http.StatusBadRequest, resp.CodeInvalidParam, "invalid request body", reqID, "")
		return false
	}
	return true
}

// validate 本地校验表单，失败时写出 400 且不访问后端
func (b base) validate(w http.ResponseWriter, r *http.Request, in any) bool {
	if err := domain.Validate(in); err != nil {
		b.writeError(w, r, err, nil)
		return false
	}
	return true
}
