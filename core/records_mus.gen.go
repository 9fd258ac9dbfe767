// Code generated by musgen-go. DO NOT EDIT.

package core

import (
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

var (
	mapp6pKRdFWvxUH1qqW076bhAΞΞ   = ord.NewMapSer[string, string](ord.String, ord.String)
	sliceXF9ΔΣMbol6oinrUsYX6zVwΞΞ = ord.NewSliceSer[MatchCandidate](MatchCandidateMUS)
	sliceZΣkn97OOΔxEci9nEavXG3AΞΞ = ord.NewSliceSer[float32](varint.Float32)
	slicekvVzU7aUMwLEkQrWXvC4ΣAΞΞ = ord.NewSliceSer[string](ord.String)
)

var IDMUS = iDMUS{}

type iDMUS struct{}

func (s iDMUS) Marshal(v ID, bs []byte) (n int) {
	return varint.Uint64.Marshal(uint64(v), bs)
}

func (s iDMUS) Unmarshal(bs []byte) (v ID, n int, err error) {
	tmp, n, err := varint.Uint64.Unmarshal(bs)
	if err != nil {
		return
	}
	v = ID(tmp)
	return
}

func (s iDMUS) Size(v ID) (size int) {
	return varint.Uint64.Size(uint64(v))
}

func (s iDMUS) Skip(bs []byte) (n int, err error) {
	return varint.Uint64.Skip(bs)
}

var CandidateSourceMUS = candidateSourceMUS{}

type candidateSourceMUS struct{}

func (s candidateSourceMUS) Marshal(v CandidateSource, bs []byte) (n int) {
	return varint.Int32.Marshal(int32(v), bs)
}

func (s candidateSourceMUS) Unmarshal(bs []byte) (v CandidateSource, n int, err error) {
	tmp, n, err := varint.Int32.Unmarshal(bs)
	if err != nil {
		return
	}
	v = CandidateSource(tmp)
	return
}

func (s candidateSourceMUS) Size(v CandidateSource) (size int) {
	return varint.Int32.Size(int32(v))
}

func (s candidateSourceMUS) Skip(bs []byte) (n int, err error) {
	return varint.Int32.Skip(bs)
}

var ResolutionKindMUS = resolutionKindMUS{}

type resolutionKindMUS struct{}

func (s resolutionKindMUS) Marshal(v ResolutionKind, bs []byte) (n int) {
	return varint.Int32.Marshal(int32(v), bs)
}

func (s resolutionKindMUS) Unmarshal(bs []byte) (v ResolutionKind, n int, err error) {
	tmp, n, err := varint.Int32.Unmarshal(bs)
	if err != nil {
		return
	}
	v = ResolutionKind(tmp)
	return
}

func (s resolutionKindMUS) Size(v ResolutionKind) (size int) {
	return varint.Int32.Size(int32(v))
}

func (s resolutionKindMUS) Skip(bs []byte) (n int, err error) {
	return varint.Int32.Skip(bs)
}

var JobStatusMUS = jobStatusMUS{}

type jobStatusMUS struct{}

func (s jobStatusMUS) Marshal(v JobStatus, bs []byte) (n int) {
	return varint.Int32.Marshal(int32(v), bs)
}

func (s jobStatusMUS) Unmarshal(bs []byte) (v JobStatus, n int, err error) {
	tmp, n, err := varint.Int32.Unmarshal(bs)
	if err != nil {
		return
	}
	v = JobStatus(tmp)
	return
}

func (s jobStatusMUS) Size(v JobStatus) (size int) {
	return varint.Int32.Size(int32(v))
}

func (s jobStatusMUS) Skip(bs []byte) (n int, err error) {
	return varint.Int32.Skip(bs)
}

var CatalogEntryMUS = catalogEntryMUS{}

type catalogEntryMUS struct{}

func (s catalogEntryMUS) Marshal(v CatalogEntry, bs []byte) (n int) {
	n = IDMUS.Marshal(v.Id, bs)
	n += ord.String.Marshal(v.Name, bs[n:])
	n += ord.String.Marshal(v.Unit, bs[n:])
	n += ord.String.Marshal(v.Kind, bs[n:])
	n += slicekvVzU7aUMwLEkQrWXvC4ΣAΞΞ.Marshal(v.Tags, bs[n:])
	n += varint.Int32.Marshal(v.Revision, bs[n:])
	n += sliceZΣkn97OOΔxEci9nEavXG3AΞΞ.Marshal(v.Vector, bs[n:])
	n += mapp6pKRdFWvxUH1qqW076bhAΞΞ.Marshal(v.Metadata, bs[n:])
	n += raw.TimeUnixMicro.Marshal(v.InsertedAt, bs[n:])
	return n + raw.TimeUnixMicro.Marshal(v.UpdatedAt, bs[n:])
}

func (s catalogEntryMUS) Unmarshal(bs []byte) (v CatalogEntry, n int, err error) {
	v.Id, n, err = IDMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.Name, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Unit, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Kind, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Tags, n1, err = slicekvVzU7aUMwLEkQrWXvC4ΣAΞΞ.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Revision, n1, err = varint.Int32.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Vector, n1, err = sliceZΣkn97OOΔxEci9nEavXG3AΞΞ.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Metadata, n1, err = mapp6pKRdFWvxUH1qqW076bhAΞΞ.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.InsertedAt, n1, err = raw.TimeUnixMicro.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.UpdatedAt, n1, err = raw.TimeUnixMicro.Unmarshal(bs[n:])
	n += n1
	return
}

func (s catalogEntryMUS) Size(v CatalogEntry) (size int) {
	size = IDMUS.Size(v.Id)
	size += ord.String.Size(v.Name)
	size += ord.String.Size(v.Unit)
	size += ord.String.Size(v.Kind)
	size += slicekvVzU7aUMwLEkQrWXvC4ΣAΞΞ.Size(v.Tags)
	size += varint.Int32.Size(v.Revision)
	size += sliceZΣkn97OOΔxEci9nEavXG3AΞΞ.Size(v.Vector)
	size += mapp6pKRdFWvxUH1qqW076bhAΞΞ.Size(v.Metadata)
	size += raw.TimeUnixMicro.Size(v.InsertedAt)
	return size + raw.TimeUnixMicro.Size(v.UpdatedAt)
}

func (s catalogEntryMUS) Skip(bs []byte) (n int, err error) {
	n, err = IDMUS.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = slicekvVzU7aUMwLEkQrWXvC4ΣAΞΞ.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = varint.Int32.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = sliceZΣkn97OOΔxEci9nEavXG3AΞΞ.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = mapp6pKRdFWvxUH1qqW076bhAΞΞ.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = raw.TimeUnixMicro.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = raw.TimeUnixMicro.Skip(bs[n:])
	n += n1
	return
}

var MatchCandidateMUS = matchCandidateMUS{}

type matchCandidateMUS struct{}

func (s matchCandidateMUS) Marshal(v MatchCandidate, bs []byte) (n int) {
	n = IDMUS.Marshal(v.EntryId, bs)
	n += ord.String.Marshal(v.Name, bs[n:])
	n += varint.Float32.Marshal(v.Score, bs[n:])
	return n + CandidateSourceMUS.Marshal(v.Source, bs[n:])
}

func (s matchCandidateMUS) Unmarshal(bs []byte) (v MatchCandidate, n int, err error) {
	v.EntryId, n, err = IDMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.Name, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Score, n1, err = varint.Float32.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Source, n1, err = CandidateSourceMUS.Unmarshal(bs[n:])
	n += n1
	return
}

func (s matchCandidateMUS) Size(v MatchCandidate) (size int) {
	size = IDMUS.Size(v.EntryId)
	size += ord.String.Size(v.Name)
	size += varint.Float32.Size(v.Score)
	return size + CandidateSourceMUS.Size(v.Source)
}

func (s matchCandidateMUS) Skip(bs []byte) (n int, err error) {
	n, err = IDMUS.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = varint.Float32.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = CandidateSourceMUS.Skip(bs[n:])
	n += n1
	return
}

var EntrySeedMUS = entrySeedMUS{}

type entrySeedMUS struct{}

func (s entrySeedMUS) Marshal(v EntrySeed, bs []byte) (n int) {
	n = ord.String.Marshal(v.Name, bs)
	return n + ord.String.Marshal(v.Unit, bs[n:])
}

func (s entrySeedMUS) Unmarshal(bs []byte) (v EntrySeed, n int, err error) {
	v.Name, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.Unit, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	return
}

func (s entrySeedMUS) Size(v EntrySeed) (size int) {
	size = ord.String.Size(v.Name)
	return size + ord.String.Size(v.Unit)
}

func (s entrySeedMUS) Skip(bs []byte) (n int, err error) {
	n, err = ord.String.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	return
}

var ResolutionResultMUS = resolutionResultMUS{}

type resolutionResultMUS struct{}

func (s resolutionResultMUS) Marshal(v ResolutionResult, bs []byte) (n int) {
	n = ResolutionKindMUS.Marshal(v.Kind, bs)
	n += IDMUS.Marshal(v.EntryId, bs[n:])
	n += sliceXF9ΔΣMbol6oinrUsYX6zVwΞΞ.Marshal(v.Candidates, bs[n:])
	return n + EntrySeedMUS.Marshal(v.Seed, bs[n:])
}

func (s resolutionResultMUS) Unmarshal(bs []byte) (v ResolutionResult, n int, err error) {
	v.Kind, n, err = ResolutionKindMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.EntryId, n1, err = IDMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Candidates, n1, err = sliceXF9ΔΣMbol6oinrUsYX6zVwΞΞ.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Seed, n1, err = EntrySeedMUS.Unmarshal(bs[n:])
	n += n1
	return
}

func (s resolutionResultMUS) Size(v ResolutionResult) (size int) {
	size = ResolutionKindMUS.Size(v.Kind)
	size += IDMUS.Size(v.EntryId)
	size += sliceXF9ΔΣMbol6oinrUsYX6zVwΞΞ.Size(v.Candidates)
	return size + EntrySeedMUS.Size(v.Seed)
}

func (s resolutionResultMUS) Skip(bs []byte) (n int, err error) {
	n, err = ResolutionKindMUS.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = IDMUS.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = sliceXF9ΔΣMbol6oinrUsYX6zVwΞΞ.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = EntrySeedMUS.Skip(bs[n:])
	n += n1
	return
}

var EmbeddingJobMUS = embeddingJobMUS{}

type embeddingJobMUS struct{}

func (s embeddingJobMUS) Marshal(v EmbeddingJob, bs []byte) (n int) {
	n = IDMUS.Marshal(v.Id, bs)
	n += ord.String.Marshal(v.InputText, bs[n:])
	n += IDMUS.Marshal(v.EntryId, bs[n:])
	n += JobStatusMUS.Marshal(v.Status, bs[n:])
	n += sliceZΣkn97OOΔxEci9nEavXG3AΞΞ.Marshal(v.Vector, bs[n:])
	n += varint.Int32.Marshal(v.Attempts, bs[n:])
	n += ord.String.Marshal(v.LastError, bs[n:])
	n += raw.TimeUnixMicro.Marshal(v.EnqueuedAt, bs[n:])
	return n + raw.TimeUnixMicro.Marshal(v.UpdatedAt, bs[n:])
}

func (s embeddingJobMUS) Unmarshal(bs []byte) (v EmbeddingJob, n int, err error) {
	v.Id, n, err = IDMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.InputText, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.EntryId, n1, err = IDMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Status, n1, err = JobStatusMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Vector, n1, err = sliceZΣkn97OOΔxEci9nEavXG3AΞΞ.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Attempts, n1, err = varint.Int32.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.LastError, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.EnqueuedAt, n1, err = raw.TimeUnixMicro.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.UpdatedAt, n1, err = raw.TimeUnixMicro.Unmarshal(bs[n:])
	n += n1
	return
}

func (s embeddingJobMUS) Size(v EmbeddingJob) (size int) {
	size = IDMUS.Size(v.Id)
	size += ord.String.Size(v.InputText)
	size += IDMUS.Size(v.EntryId)
	size += JobStatusMUS.Size(v.Status)
	size += sliceZΣkn97OOΔxEci9nEavXG3AΞΞ.Size(v.Vector)
	size += varint.Int32.Size(v.Attempts)
	size += ord.String.Size(v.LastError)
	size += raw.TimeUnixMicro.Size(v.EnqueuedAt)
	return size + raw.TimeUnixMicro.Size(v.UpdatedAt)
}

func (s embeddingJobMUS) Skip(bs []byte) (n int, err error) {
	n, err = IDMUS.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = IDMUS.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = JobStatusMUS.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = sliceZΣkn97OOΔxEci9nEavXG3AΞΞ.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = varint.Int32.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = raw.TimeUnixMicro.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = raw.TimeUnixMicro.Skip(bs[n:])
	n += n1
	return
}
