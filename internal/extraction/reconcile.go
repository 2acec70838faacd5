package extraction

// frameAt pairs one demultiplexed frame with the timestamp it was
// decoded for.
type frameAt struct {
	timestampMs int64
	data        []byte
}

// reconcile maps frames onto timestamps positionally: the i-th frame of
// the stream belongs to the i-th ascending timestamp. The decoder emits
// frames in presentation order and exactly one per window, so position
// is the only association available and also a correct one. Fewer
// frames than timestamps fails the whole batch; extra frames beyond the
// requested count are left for the caller to ignore.
func reconcile(timestampsMs []int64, frames [][]byte) ([]frameAt, error) {
	if len(frames) < len(timestampsMs) {
		missing := append([]int64(nil), timestampsMs[len(frames):]...)
		return nil, &PartialExtractionError{
			Requested:           len(timestampsMs),
			Produced:            len(frames),
			MissingTimestampsMs: missing,
		}
	}

	matched := make([]frameAt, len(timestampsMs))
	for i, ts := range timestampsMs {
		matched[i] = frameAt{timestampMs: ts, data: frames[i]}
	}
	return matched, nil
}
