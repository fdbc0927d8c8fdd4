package user

import (
	"context"

	"user-dashboard/internal/domain"
)

// Gateway 读取原始用户并统一做派生字段补充。
// 远端/兜底的切换由 src 决定（见 repo.Fallback），这里看不出差别。
type Gateway struct {
	src domain.UserSource
	enh *Enhancer
}

func NewGateway(src domain.UserSource, enh *Enhancer) *Gateway {
	if enh == nil {
		enh = NewEnhancer(nil)
	}
	return &Gateway{src: src, enh: enh}
}

func (g *Gateway) Page(ctx context.Context, page, perPage int) (domain.UserPage, error) {
	rp, err := g.src.FetchPage(ctx, page, perPage)
	if err != nil {
		return domain.UserPage{}, err
	}
	return domain.UserPage{
		Page:       rp.Page,
		PerPage:    rp.PerPage,
		Total:      rp.Total,
		TotalPages: rp.TotalPages,
		Data:       g.enh.EnhanceAll(rp.Data),
	}, nil
}

func (g *Gateway) ByID(ctx context.Context, id int) (domain.User, error) {
	u, err := g.src.FetchByID(ctx, id)
	if err != nil {
		return domain.User{}, err
	}
	return g.enh.Enhance(u), nil
}

func (g *Gateway) All(ctx context.Context) ([]domain.User, error) {
	us, err := g.src.FetchAll(ctx)
	if err != nil {
		return nil, err
	}
	return g.enh.EnhanceAll(us), nil
}
