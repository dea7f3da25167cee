package booking

// Overlaps reports whether the half-open clock intervals [aStart, aEnd) and
// [bStart, bEnd) overlap. Inputs are zero-padded "HH:mm" strings, so string
// comparison matches chronological order. Exactly equal intervals are matched
// first as an explicit duplicate check.
func Overlaps(aStart, aEnd, bStart, bEnd string) bool {
	if aStart == bStart && aEnd == bEnd {
		return true
	}
	return aStart < bEnd && aEnd > bStart
}

// Contains reports whether the slot [slotStart, slotEnd) lies entirely inside
// the booking interval [start, end). Slots that only partially overlap a
// booking's boundary are not contained and keep their current status.
func Contains(start, end, slotStart, slotEnd string) bool {
	return slotStart >= start && slotEnd <= end
}
