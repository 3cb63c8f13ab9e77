package nebula

import (
	"context"

	"github.com/nebula-contrib/nebula-go/pkg/graph"
	"github.com/nebula-contrib/nebula-go/pkg/ntype"
)

// GraphQueryOutput is the decoded result of one Execute call: the
// statement metadata graphd attaches to every response, plus the
// dataset (when the statement produced one). The dataset-proxy methods
// below are hand-duplicated onto DataSetWrapper's accessors since Go
// has no macro to generate them, matching the shape
// dataset_wrapper_proxy! generates in the source client.
type GraphQueryOutput struct {
	resp     *graph.ExecutionResponse
	dataset  *DataSetWrapper
	timezone TimezoneInfo
}

func newGraphQueryOutput(resp *graph.ExecutionResponse, tz TimezoneInfo) *GraphQueryOutput {
	out := &GraphQueryOutput{resp: resp, timezone: tz}
	if resp.Data != nil {
		out.dataset = NewDataSetWrapper(resp.Data, tz)
	}
	return out
}

func (o *GraphQueryOutput) LatencyUs() int64   { return o.resp.LatencyUs }
func (o *GraphQueryOutput) SpaceName() string  { return string(o.resp.SpaceName) }
func (o *GraphQueryOutput) PlanDesc() []byte   { return o.resp.PlanDesc }
func (o *GraphQueryOutput) Comment() string    { return string(o.resp.Comment) }

// IsSucceed reports whether this statement completed with SUCCEEDED.
func (o *GraphQueryOutput) IsSucceed() bool { return o.resp.ErrorCode == ntype.ErrSucceeded }

// IsPartialSucceed reports whether this statement completed with
// E_PARTIAL_SUCCEEDED.
func (o *GraphQueryOutput) IsPartialSucceed() bool {
	return o.resp.ErrorCode == ntype.ErrPartialSucceeded
}

// GetLatencyInMs returns the server-measured execution latency in
// milliseconds.
func (o *GraphQueryOutput) GetLatencyInMs() float64 {
	return float64(o.resp.LatencyUs) / 1000.0
}

// IsSetPlanDesc reports whether this response carried a plan
// description (e.g. from `EXPLAIN`/`PROFILE`).
func (o *GraphQueryOutput) IsSetPlanDesc() bool { return o.resp.PlanDesc != nil }

// Dataset returns the decoded dataset, or an error if this response
// carried none (e.g. a DDL statement).
func (o *GraphQueryOutput) Dataset() (*DataSetWrapper, error) {
	if o.dataset == nil {
		return nil, &UnexistedDataSetError{}
	}
	return o.dataset, nil
}

func (o *GraphQueryOutput) IsEmpty() bool {
	if o.dataset == nil {
		return true
	}
	return o.dataset.IsEmpty()
}

func (o *GraphQueryOutput) GetRowSize() int {
	if o.dataset == nil {
		return 0
	}
	return o.dataset.GetRowSize()
}

func (o *GraphQueryOutput) GetColSize() int {
	if o.dataset == nil {
		return 0
	}
	return o.dataset.GetColSize()
}

func (o *GraphQueryOutput) GetColNames() []string {
	if o.dataset == nil {
		return nil
	}
	return o.dataset.GetColNames()
}

func (o *GraphQueryOutput) GetRows() ([]*Record, error) {
	ds, err := o.Dataset()
	if err != nil {
		return nil, err
	}
	return ds.GetRows()
}

func (o *GraphQueryOutput) GetRowValuesByIndex(index int) ([]ValueWrapper, error) {
	ds, err := o.Dataset()
	if err != nil {
		return nil, err
	}
	return ds.GetRowValuesByIndex(index)
}

func (o *GraphQueryOutput) GetValuesByColName(name string) ([]ValueWrapper, error) {
	ds, err := o.Dataset()
	if err != nil {
		return nil, err
	}
	return ds.GetValuesByColName(name)
}

func (o *GraphQueryOutput) AsStringTable() [][]string {
	if o.dataset == nil {
		return nil
	}
	return o.dataset.AsStringTable()
}

func (o *GraphQueryOutput) String() string {
	if o.dataset == nil {
		return ""
	}
	return o.dataset.String()
}

// ScanOutput decodes every row of this response's dataset into T via
// Scan.
func ScanOutput[T any](o *GraphQueryOutput) ([]T, error) {
	ds, err := o.Dataset()
	if err != nil {
		return nil, err
	}
	return Scan[T](ds)
}

// Host is the row shape of a `SHOW HOSTS;` response.
type Host struct {
	Host                   string `nebula:"Host"`
	Port                   int64  `nebula:"Port"`
	Status                 string `nebula:"Status"`
	LeaderCount            int64  `nebula:"Leader count"`
	LeaderDistribution     string `nebula:"Leader distribution"`
	PartitionDistribution  string `nebula:"Partition distribution"`
	Version                string `nebula:"Version"`
}

// Space is the row shape of a `SHOW SPACES;` response.
type Space struct {
	Name string `nebula:"Name"`
}

// ShowHosts runs `SHOW HOSTS;` and decodes the result.
func ShowHosts(ctx context.Context, q GraphQuery) ([]Host, error) {
	out, err := q.Execute(ctx, "SHOW HOSTS;")
	if err != nil {
		return nil, err
	}
	return ScanOutput[Host](out)
}

// ShowSpaces runs `SHOW SPACES;` and decodes the result.
func ShowSpaces(ctx context.Context, q GraphQuery) ([]Space, error) {
	out, err := q.Execute(ctx, "SHOW SPACES;")
	if err != nil {
		return nil, err
	}
	return ScanOutput[Space](out)
}
