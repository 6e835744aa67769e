package agents

import (
	"context"

	"github.com/yungbote/maiopinion/internal/domain"
)

// Specialist turns a classified image into a findings string.
type Specialist interface {
	Name() string
	Analyze(ctx context.Context, imagePath, condition string, det domain.Detection) string
}

type Router struct {
	dental  Specialist
	chest   Specialist
	generic Specialist
}

func NewRouter(d Deps) *Router {
	return &Router{
		dental:  NewDentalSpecialist(d),
		chest:   NewChestSpecialist(d),
		generic: NewGenericSpecialist(d),
	}
}

// NewRouterWith wires explicit specialists.
func NewRouterWith(dental, chest, generic Specialist) *Router {
	return &Router{dental: dental, chest: chest, generic: generic}
}

// Route is total: unknown categories go to the generic specialist.
func (r *Router) Route(c domain.Category) Specialist {
	switch c {
	case domain.CategoryDental:
		return r.dental
	case domain.CategoryChestXray:
		return r.chest
	default:
		return r.generic
	}
}

// Analysis is the routed specialist output.
type Analysis struct {
	Findings  string
	AgentUsed string
}

func (r *Router) Analyze(ctx context.Context, imagePath, condition string, det domain.Detection) Analysis {
	s := r.Route(det.Category)
	return Analysis{
		Findings:  s.Analyze(ctx, imagePath, condition, det),
		AgentUsed: s.Name(),
	}
}
