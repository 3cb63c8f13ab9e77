// Package storage implements the storage-service wire client (spec.md
// §4.8, C8): per-partition vertex/edge scans against storaged leaders,
// fanned out across whatever partitions a space's meta allocation names.
package storage

import "github.com/nebula-contrib/nebula-go/pkg/ntype"

const (
	// KVID, KSrc, KType, KRank, KDst are the system column names every
	// scan result carries alongside requested properties (spec.md §4.8
	// step 2).
	KVID  = "_vid"
	KSrc  = "_src"
	KType = "_type"
	KRank = "_rank"
	KDst  = "_dst"

	defaultLimit     = 1000
	defaultStartTime = int64(0)
	defaultEndTime   = int64(1<<63 - 1)
)

// VertexProp names a tag and the properties of it a scan should return.
type VertexProp struct {
	Tag   int32
	Props [][]byte
}

// EdgeProp names an edge type and the properties of it a scan should
// return.
type EdgeProp struct {
	Type  int32
	Props [][]byte
}

// ScanCursor is the per-partition continuation token a scan response
// carries back. This client treats the first response per partition as
// complete (spec.md §4.8 "Cursor handling") and never re-issues a scan
// with a non-empty cursor.
type ScanCursor struct {
	NextCursor []byte
}

type ScanVertexRequest struct {
	SpaceID                int32
	Parts                  map[int32]ScanCursor
	ReturnColumns          []VertexProp
	Limit                  int64
	StartTime              *int64
	EndTime                *int64
	Filter                 []byte
	OnlyLatestVersion      bool
	EnableReadFromFollower bool
}

type ScanEdgeRequest struct {
	SpaceID                int32
	Parts                  map[int32]ScanCursor
	ReturnColumns          []EdgeProp
	Limit                  int64
	StartTime              *int64
	EndTime                *int64
	Filter                 []byte
	OnlyLatestVersion      bool
	EnableReadFromFollower bool
}

// ScanResponse is the per-partition scan result (spec.md §3 "ScanResponse").
type ScanResponse struct {
	ErrorCode ntype.ErrorCode
	Props     *ntype.DataSet
	Cursors   map[int32]ScanCursor
}

func newScanVertexRequest(spaceID, partID int32, prop VertexProp) *ScanVertexRequest {
	startTime, endTime := defaultStartTime, defaultEndTime
	return &ScanVertexRequest{
		SpaceID:                spaceID,
		Parts:                  map[int32]ScanCursor{partID: {}},
		ReturnColumns:          []VertexProp{prop},
		Limit:                  defaultLimit,
		StartTime:              &startTime,
		EndTime:                &endTime,
		OnlyLatestVersion:      false,
		EnableReadFromFollower: true,
	}
}

func newScanEdgeRequest(spaceID, partID int32, prop EdgeProp) *ScanEdgeRequest {
	startTime, endTime := defaultStartTime, defaultEndTime
	return &ScanEdgeRequest{
		SpaceID:                spaceID,
		Parts:                  map[int32]ScanCursor{partID: {}},
		ReturnColumns:          []EdgeProp{prop},
		Limit:                  defaultLimit,
		StartTime:              &startTime,
		EndTime:                &endTime,
		OnlyLatestVersion:      false,
		EnableReadFromFollower: true,
	}
}
