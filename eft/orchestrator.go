package eft

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/veduco/EFTSuite-Public/codec"
	"github.com/veduco/EFTSuite-Public/errs"
	"github.com/veduco/EFTSuite-Public/format"
	"github.com/veduco/EFTSuite-Public/imaging"
	"github.com/veduco/EFTSuite-Public/record"
	"github.com/veduco/EFTSuite-Public/scratch"
)

// Result is one completed encode operation.
type Result struct {
	// Data is the assembled file.
	Data []byte
	// TCN is the transaction control number carried in 1.009.
	TCN string
	// Bitrate is the WSQ bitrate that produced Data; 0 means uncompressed.
	Bitrate float64
	// CGA is the compression the image records carry.
	CGA format.CompressionAlgorithm
	// Warnings carries non-fatal conditions: ErrSizeBudgetExceeded when the
	// ladder ran dry, ErrValidation when the post-assembly check disagreed,
	// and sub-conformant resolution notes. Test with errors.Is.
	Warnings []error
}

// preparedAsset is one image input readied for the ladder: metadata plus the
// scratch-store ID of its (possibly normalized) plane. Pixel planes live in
// the store between attempts, not in memory.
type preparedAsset struct {
	position int
	width    int
	height   int
	ppi      int
	bitDepth int
	planeID  uint64
	segments []imaging.Segment
}

// cacheKey identifies one external-codec encoding of one plane.
type cacheKey struct {
	planeID uint64
	bitrate float64
}

// Encode runs the complete operation: normalize inputs, then attempt an
// uncompressed assembly and walk the WSQ bitrate ladder until the file fits
// the size ceiling. Every attempt is an independent assembly; previously
// emitted bytes are never patched.
//
// On ladder exhaustion the smallest produced file is returned together with
// an ErrSizeBudgetExceeded warning; the caller decides whether to accept it.
func (e *Encoder) Encode(ctx context.Context, bio Biographic, assets []*imaging.Asset) (*Result, error) {
	dir, err := scratch.New(e.scratchRoot, e.storeKind, e.logger)
	if err != nil {
		return nil, err
	}
	defer dir.Remove()

	adapter := e.adapter
	if adapter == nil {
		adapter = codec.NewNBIS(dir.Path(), e.logger)
	}

	now := e.clock()
	date, _, _ := strings.Cut(now, ":")

	t2, err := e.buildType2(bio, date)
	if err != nil {
		return nil, err
	}
	tcn := e.buildTCN(date, t2.Name)

	var warnings []error
	prepared, warnings, err := e.prepareAssets(ctx, dir, adapter, assets, warnings)
	if err != nil {
		return nil, err
	}

	type attempt struct {
		cga     format.CompressionAlgorithm
		bitrate float64
	}
	attempts := []attempt{{cga: format.CGANone}}
	for _, rate := range e.ladder {
		attempts = append(attempts, attempt{cga: format.CGAWSQ, bitrate: rate})
	}

	cache := make(map[cacheKey][]byte)
	var smallest []byte
	var smallestAttempt attempt

	for _, att := range attempts {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: between ladder attempts", errs.ErrCancelled)
		}

		data, err := e.encodeAttempt(ctx, dir, adapter, t2, tcn, date, prepared, att.cga, att.bitrate, cache)
		if err != nil {
			if errors.Is(err, errs.ErrCodecFailure) {
				e.logger.Info("ladder step failed, trying next", "bitrate", att.bitrate, "err", err)
				continue
			}

			return nil, err
		}

		e.logger.Debug("ladder attempt assembled", "cga", att.cga, "bitrate", att.bitrate, "size", len(data))

		if smallest == nil || len(data) < len(smallest) {
			smallest = data
			smallestAttempt = att
		}
		if len(data) <= e.sizeCeiling {
			return e.finish(ctx, adapter, data, tcn, att.cga, att.bitrate, warnings)
		}
	}

	if smallest == nil {
		return nil, fmt.Errorf("%w: every ladder attempt failed", errs.ErrCodecFailure)
	}

	warnings = append(warnings, fmt.Errorf("%w: smallest attempt is %d bytes, ceiling %d",
		errs.ErrSizeBudgetExceeded, len(smallest), e.sizeCeiling))

	return e.finish(ctx, adapter, smallest, tcn, smallestAttempt.cga, smallestAttempt.bitrate, warnings)
}

// prepareAssets validates and orders the inputs, normalizes Type-4 geometry,
// scores unscored slap segments, and parks every plane in the scratch store.
func (e *Encoder) prepareAssets(
	ctx context.Context,
	dir *scratch.Dir,
	adapter codec.Adapter,
	assets []*imaging.Asset,
	warnings []error,
) ([]*preparedAsset, []error, error) {
	byPosition := make(map[int]*imaging.Asset, len(assets))
	var positions []int
	for _, asset := range assets {
		if err := asset.Validate(); err != nil {
			return nil, warnings, err
		}
		if !asset.Conformant() {
			warnings = append(warnings, fmt.Errorf("%w: position %d scanned at %d PPI, below %d",
				errs.ErrInvalidInput, asset.Position, asset.PPI, imaging.MinConformantPPI))
			e.logger.Info("sub-conformant scan resolution", "position", asset.Position, "ppi", asset.PPI)
		}
		byPosition[asset.Position] = asset
		positions = append(positions, asset.Position)
	}
	sort.Ints(positions)

	selected := e.selectPositions(positions)
	prepared := make([]*preparedAsset, 0, len(selected))
	for _, pos := range selected {
		if ctx.Err() != nil {
			return nil, warnings, fmt.Errorf("%w: while preparing assets", errs.ErrCancelled)
		}

		asset := byPosition[pos]
		if e.mode == format.ModeRolled {
			asset = asset.NormalizeType4()
		}

		segments := e.scoreSegments(ctx, adapter, asset)

		planeID, err := dir.PutPlane(asset.Pixels)
		if err != nil {
			return nil, warnings, err
		}

		prepared = append(prepared, &preparedAsset{
			position: asset.Position,
			width:    asset.Width,
			height:   asset.Height,
			ppi:      asset.PPI,
			bitDepth: asset.BitDepth,
			planeID:  planeID,
			segments: segments,
		})
	}

	return prepared, warnings, nil
}

// scoreSegments fills in missing NFIQ scores, cropping each segment out of
// the slap plane. Scoring failures record the 255 sentinel, which propagates
// into the quality fields.
func (e *Encoder) scoreSegments(ctx context.Context, adapter codec.Adapter, asset *imaging.Asset) []imaging.Segment {
	if len(asset.Segments) == 0 {
		return nil
	}

	segments := make([]imaging.Segment, len(asset.Segments))
	copy(segments, asset.Segments)
	for i := range segments {
		if segments[i].Quality != 0 {
			continue
		}

		crop, width, height := asset.CropSegment(segments[i])
		if len(crop) == 0 {
			segments[i].Quality = imaging.QualityUnscored
			continue
		}

		score, err := adapter.ScoreNFIQ(ctx, crop, width, height, asset.PPI)
		if err != nil || score < 1 || score > 5 {
			e.logger.Info("nfiq scoring failed", "position", segments[i].Position, "err", err)
			score = imaging.QualityUnscored
		}
		segments[i].Quality = score
	}

	return segments
}

// encodeAttempt performs one complete, independent assembly at the given
// compression setting.
func (e *Encoder) encodeAttempt(
	ctx context.Context,
	dir *scratch.Dir,
	adapter codec.Adapter,
	t2 *record.Type2,
	tcn, date string,
	prepared []*preparedAsset,
	cga format.CompressionAlgorithm,
	bitrate float64,
	cache map[cacheKey][]byte,
) ([]byte, error) {
	t1 := record.NewType1(date)
	t1.LengthIters = e.lengthIters
	t1.SetTCN(tcn)
	t1.AddChild(t2)

	if e.mode == format.ModeRolled && len(prepared) > 0 {
		t1.NSR = resolutionField(prepared[0].ppi)
		t1.NTR = t1.NSR
	}

	idc := t2.IDC() + 1
	for _, asset := range prepared {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: between image records", errs.ErrCancelled)
		}

		payload, err := e.payloadFor(ctx, dir, adapter, asset, cga, bitrate, cache)
		if err != nil {
			return nil, err
		}

		if e.mode == format.ModeRolled {
			t1.AddChild(record.NewType4(idc, asset.position, asset.width, asset.height, cga, payload))
		} else {
			t14 := record.NewType14(idc, asset.position, date)
			t14.Width = asset.width
			t14.Height = asset.height
			t14.CGA = cga
			t14.Segments = asset.segments
			t14.Image = payload
			t14.LengthIters = e.lengthIters
			t1.AddChild(t14)
		}
		idc++
	}

	return assembleFile(ctx, t1)
}

// payloadFor restores the plane from the scratch store and encodes it for
// the attempt. WSQ encodings are cached per (plane, bitrate) so a retried
// assembly never re-invokes the external codec for identical content.
func (e *Encoder) payloadFor(
	ctx context.Context,
	dir *scratch.Dir,
	adapter codec.Adapter,
	asset *preparedAsset,
	cga format.CompressionAlgorithm,
	bitrate float64,
	cache map[cacheKey][]byte,
) ([]byte, error) {
	plane, err := dir.GetPlane(asset.planeID)
	if err != nil {
		return nil, err
	}

	if cga == format.CGANone {
		return plane, nil
	}

	key := cacheKey{planeID: asset.planeID, bitrate: bitrate}
	if cached, ok := cache[key]; ok {
		return cached, nil
	}

	encoded, err := adapter.EncodeWSQ(ctx, plane, asset.width, asset.height, asset.bitDepth, asset.ppi, bitrate)
	if err != nil {
		return nil, err
	}
	cache[key] = encoded

	return encoded, nil
}

// finish runs the post-assembly validator and packages the result.
func (e *Encoder) finish(
	ctx context.Context,
	adapter codec.Adapter,
	data []byte,
	tcn string,
	cga format.CompressionAlgorithm,
	bitrate float64,
	warnings []error,
) (*Result, error) {
	if ok, message := adapter.Validate(ctx, data); !ok {
		warnings = append(warnings, fmt.Errorf("%w: %s", errs.ErrValidation, message))
		e.logger.Info("post-assembly validation failed", "message", message)
	}

	return &Result{
		Data:     data,
		TCN:      tcn,
		Bitrate:  bitrate,
		CGA:      cga,
		Warnings: warnings,
	}, nil
}
