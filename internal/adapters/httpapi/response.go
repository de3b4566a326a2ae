package httpapi

import (
	"github.com/zerotreasury/zdao/internal/usecase"
)

// ListResponse is the JSON form of an instance listing
type ListResponse struct {
	Instances []usecase.InstanceView `json:"instances"`
	Total     int                    `json:"total"`
	Canonical int                    `json:"canonical"`
	ByModule  map[string]int         `json:"byModule"`
}

// FromListResult converts a listing into its response
func FromListResult(res *usecase.ListInstancesResult) ListResponse {
	instances := res.Instances
	if instances == nil {
		instances = []usecase.InstanceView{}
	}
	return ListResponse{
		Instances: instances,
		Total:     res.Summary.Total,
		Canonical: res.Summary.Canonical,
		ByModule:  res.Summary.ByModule,
	}
}
