// Cadence - Music Streaming User Behaviour Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

package pages

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/cadence/internal/accounts"
	"github.com/tomtom215/cadence/internal/config"
	"github.com/tomtom215/cadence/internal/frame"
	"github.com/tomtom215/cadence/internal/logging"
	"github.com/tomtom215/cadence/internal/metrics"
)

var (
	// ErrUnknownPage is returned by Lookup for an unregistered page ID.
	ErrUnknownPage = errors.New("unknown page")

	// ErrInvalidParam is returned when a page parameter cannot be used.
	ErrInvalidParam = errors.New("invalid page parameter")
)

// PageID identifies a page.
type PageID string

// Page IDs in menu order.
const (
	Overview  PageID = "overview"
	Portrait  PageID = "portrait"
	Social    PageID = "social"
	Playlist  PageID = "playlist"
	Listening PageID = "listening"
	Account   PageID = "account"
)

// RenderContext carries one request's view of the caller. It is built per
// request and never shared.
type RenderContext struct {
	Ctx       context.Context //nolint:containedctx // request-scoped by construction
	Username  string
	Role      string
	SessionID string
	Params    map[string]string
}

// Context returns Ctx, or context.Background when unset.
func (rc *RenderContext) Context() context.Context {
	if rc.Ctx == nil {
		return context.Background()
	}
	return rc.Ctx
}

// Param returns a query parameter or "".
func (rc *RenderContext) Param(name string) string {
	if rc.Params == nil {
		return ""
	}
	return rc.Params[name]
}

// RenderFunc renders a page.
type RenderFunc func(rc *RenderContext) (*Result, error)

// Page is a registry entry.
type Page struct {
	ID     PageID
	Title  string
	Icon   string
	Render RenderFunc
}

// MenuItem is the navigation entry of a page.
type MenuItem struct {
	ID    PageID `json:"id"`
	Title string `json:"title"`
	Icon  string `json:"icon"`
}

// TableSource loads catalog tables. *source.Loader implements it.
type TableSource interface {
	Load(ctx context.Context, name string) (*frame.Table, error)
	LoadOptional(ctx context.Context, name string) (*frame.Table, error)
}

// UserDirectory looks up accounts. *accounts.Store implements it.
type UserDirectory interface {
	Get(username string) (accounts.User, error)
}

// Deps are the collaborators pages render with.
type Deps struct {
	Tables   TableSource
	Users    UserDirectory
	Analysis config.AnalysisConfig

	// Now defaults to time.Now; ages are computed against it.
	Now func() time.Time
}

// Registry maps page IDs to pages. It is read-only after NewRegistry.
type Registry struct {
	pages map[PageID]Page
	order []PageID
}

// NewRegistry registers every page over deps.
func NewRegistry(deps Deps) *Registry {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Analysis.PreviewRows <= 0 {
		deps.Analysis.PreviewRows = 100
	}
	d := &deps

	r := &Registry{pages: make(map[PageID]Page)}
	r.register(Page{ID: Overview, Title: "主页", Icon: "house", Render: d.renderOverview})
	r.register(Page{ID: Portrait, Title: "用户画像", Icon: "person-circle", Render: d.renderPortrait})
	r.register(Page{ID: Social, Title: "社交互动", Icon: "chat-dots", Render: d.renderSocial})
	r.register(Page{ID: Playlist, Title: "歌单偏好", Icon: "music-note-list", Render: d.renderPlaylist})
	r.register(Page{ID: Listening, Title: "播放行为", Icon: "bar-chart", Render: d.renderListening})
	r.register(Page{ID: Account, Title: "我的", Icon: "person-badge", Render: d.renderAccount})
	return r
}

func (r *Registry) register(p Page) {
	r.pages[p.ID] = p
	r.order = append(r.order, p.ID)
}

// Lookup returns the page registered under id.
func (r *Registry) Lookup(id PageID) (Page, error) {
	p, ok := r.pages[id]
	if !ok {
		return Page{}, fmt.Errorf("%w: %q", ErrUnknownPage, string(id))
	}
	return p, nil
}

// Menu lists pages in display order.
func (r *Registry) Menu() []MenuItem {
	out := make([]MenuItem, len(r.order))
	for i, id := range r.order {
		p := r.pages[id]
		out[i] = MenuItem{ID: p.ID, Title: p.Title, Icon: p.Icon}
	}
	return out
}

// Render looks up and renders a page, recording the outcome.
func (r *Registry) Render(id PageID, rc *RenderContext) (*Result, error) {
	p, err := r.Lookup(id)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	res, err := p.Render(rc)
	metrics.ObserveStage("page_"+string(id), start)
	if err != nil {
		metrics.RecordPageRender(string(id), outcome(err))
		logging.Ctx(rc.Context()).Warn().Err(err).Str("page", string(id)).Msg("Page render failed")
		return nil, err
	}
	metrics.RecordPageRender(string(id), "ok")
	logging.Ctx(rc.Context()).Debug().
		Str("page", string(id)).
		Int("artifacts", len(res.Artifacts)).
		Dur("elapsed", time.Since(start)).
		Msg("Page rendered")
	return res, nil
}

func outcome(err error) string {
	switch {
	case errors.Is(err, frame.ErrSourceUnavailable):
		return "source_unavailable"
	case errors.Is(err, ErrInvalidParam):
		return "invalid_param"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "error"
	}
}
