package http

import (
	"github.com/aretw0/flowboard/pkg/domain"
	"github.com/aretw0/flowboard/pkg/registry"
)

// dropRequest is the body of POST /nodes: the drag payload plus where it landed.
type dropRequest struct {
	domain.DropPayload
	Position domain.Position `json:"position"`
}

type fieldRequest struct {
	Value any `json:"value"`
}

type nodeChangesRequest struct {
	Changes []domain.NodeChange `json:"changes" validate:"dive"`
}

type edgeChangesRequest struct {
	Changes []domain.EdgeChange `json:"changes" validate:"dive"`
}

type changesResponse struct {
	Applied int `json:"applied"`
}

type replaceResponse struct {
	Graph domain.Graph      `json:"graph"`
	Diff  *domain.GraphDiff `json:"diff,omitempty"`
}

type submitResponse struct {
	domain.PipelineResult
	Summary string `json:"summary"`
}

type typeView struct {
	registry.Definition
	Dynamic bool `json:"dynamic_handles"`
}

func newTypeView(d registry.Definition) typeView {
	return typeView{Definition: d, Dynamic: d.Dynamic()}
}
