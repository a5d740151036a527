package batch

import (
	"context"

	"github.com/YONSEI-TPLAB/map-api/pkg/flatten"
	"github.com/YONSEI-TPLAB/map-api/pkg/naver"
	"github.com/YONSEI-TPLAB/map-api/pkg/params"
	"github.com/YONSEI-TPLAB/map-api/pkg/table"
)

// DrivingJob requests driving directions for every row.
type DrivingJob struct {
	Client       *naver.Client
	Builder      *params.Builder
	NumWaypoints int
	Options      []string
}

// NewDrivingJob validates the waypoint count before any request is made.
func NewDrivingJob(client *naver.Client, builder *params.Builder, numWaypoints int, options []string) (*DrivingJob, error) {
	if _, err := client.DrivingURL(numWaypoints); err != nil {
		return nil, err
	}
	if len(options) == 0 {
		options = params.DefaultOptions
	}
	return &DrivingJob{
		Client:       client,
		Builder:      builder,
		NumWaypoints: numWaypoints,
		Options:      options,
	}, nil
}

func (j *DrivingJob) Params(r table.Record) (string, error) {
	return j.Builder.Driving(r, j.Options)
}

func (j *DrivingJob) Resolve(ctx context.Context, query string) (flatten.Result, error) {
	resp, err := j.Client.FetchDriving(ctx, j.NumWaypoints, query)
	if err != nil {
		return flatten.Result{}, err
	}
	return flatten.Driving(resp, query, j.Options)
}

func (j *DrivingJob) Columns() []string {
	return flatten.DrivingColumns(j.Options)
}

// TransitJob requests public transit directions for every row.
type TransitJob struct {
	Client  *naver.Client
	Builder *params.Builder
	Mode    string
}

// NewTransitJob creates a transit job. An empty mode means realtime.
func NewTransitJob(client *naver.Client, builder *params.Builder, mode string) *TransitJob {
	if mode == "" {
		mode = params.ModeRealtime
	}
	return &TransitJob{Client: client, Builder: builder, Mode: mode}
}

func (j *TransitJob) Params(r table.Record) (string, error) {
	return j.Builder.Transit(r, j.Mode)
}

func (j *TransitJob) Resolve(ctx context.Context, query string) (flatten.Result, error) {
	resp, err := j.Client.FetchTransit(ctx, query)
	if err != nil {
		return flatten.Result{}, err
	}
	return flatten.Transit(resp, query), nil
}

func (j *TransitJob) Columns() []string {
	return flatten.TransitColumns
}
