// Package models defines the records shared between the demo's packages and
// the files it writes.
package models

// FrameRecord is one row of an input trace: the tracker's sample after the
// Update of a frame, plus the vibration command issued during that frame.
//
// The 256-key table is packed into four 64-bit words, key k living in bit
// k%64 of word k/64.
type FrameRecord struct {
	Frame     int64   `parquet:"name=frame, type=INT64"`
	Timestamp float64 `parquet:"name=timestamp, type=DOUBLE"`

	Keys0 int64 `parquet:"name=keys0, type=INT64"`
	Keys1 int64 `parquet:"name=keys1, type=INT64"`
	Keys2 int64 `parquet:"name=keys2, type=INT64"`
	Keys3 int64 `parquet:"name=keys3, type=INT64"`

	Connected    bool  `parquet:"name=connected, type=BOOLEAN"`
	Buttons      int32 `parquet:"name=buttons, type=INT32"`
	ThumbLX      int32 `parquet:"name=thumb_lx, type=INT32"`
	ThumbLY      int32 `parquet:"name=thumb_ly, type=INT32"`
	LeftTrigger  int32 `parquet:"name=left_trigger, type=INT32"`
	RightTrigger int32 `parquet:"name=right_trigger, type=INT32"`

	VibrationLeft  int32 `parquet:"name=vibration_left, type=INT32"`
	VibrationRight int32 `parquet:"name=vibration_right, type=INT32"`
}

// KeyWords returns the packed key table.
func (r *FrameRecord) KeyWords() [4]uint64 {
	return [4]uint64{uint64(r.Keys0), uint64(r.Keys1), uint64(r.Keys2), uint64(r.Keys3)}
}

// SetKeyWords stores a packed key table.
func (r *FrameRecord) SetKeyWords(w [4]uint64) {
	r.Keys0 = int64(w[0])
	r.Keys1 = int64(w[1])
	r.Keys2 = int64(w[2])
	r.Keys3 = int64(w[3])
}
