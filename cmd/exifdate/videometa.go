package main

import (
	"os"
	"time"

	mp4 "github.com/abema/go-mp4"
	"github.com/rs/zerolog/log"
)

// videoProber extracts a creation timestamp from a video container.
// Returning nil means no date was found; probing is best-effort and never
// fails analysis.
type videoProber interface {
	probeCreationTime(path string) *time.Time
}

// noopProber is the default video collaborator: it reports no dates, so
// video files fall back to filename and filesystem candidates.
type noopProber struct{}

func (noopProber) probeCreationTime(string) *time.Time { return nil }

// Seconds between the MP4 epoch (1904-01-01) and the Unix epoch.
const mp4EpochOffset = 2082844800

// mp4Prober reads the mvhd creation time from MP4-family containers. It is
// opt-in behind the probe-video flag.
type mp4Prober struct{}

func (mp4Prober) probeCreationTime(path string) *time.Time {
	f, err := os.Open(path)
	if err != nil {
		log.Warn().Err(err).Str("file", path).Msg("cannot open video for probing")
		return nil
	}
	defer f.Close()

	boxes, err := mp4.ExtractBoxWithPayload(
		f, nil,
		mp4.BoxPath{mp4.BoxTypeMoov(), mp4.BoxTypeMvhd()},
	)
	if err != nil {
		log.Debug().Err(err).Str("file", path).Msg("mvhd extraction failed")
		return nil
	}
	if len(boxes) == 0 {
		return nil
	}

	mvhd, ok := boxes[0].Payload.(*mp4.Mvhd)
	if !ok {
		return nil
	}

	var ct uint64
	if mvhd.Version > 0 {
		ct = mvhd.CreationTimeV1
	} else {
		ct = uint64(mvhd.CreationTimeV0)
	}
	if ct == 0 {
		return nil
	}

	t := time.Unix(int64(ct)-mp4EpochOffset, 0)
	return &t
}
