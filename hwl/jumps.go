package hwl

const unmatched = -1

// buildJumps pairs every OpSkip with its OpLoop in one pass. jumps[i] holds
// the partner index for bracket ops and unmatched when none exists; other
// entries are unused. The pairing is the same one a depth-counting scan from
// either marker finds, so an unmatched entry is exactly a scan that would
// walk off the stream.
func buildJumps(ops []Op) []int {
	jumps := make([]int, len(ops))
	var open []int
	for i, op := range ops {
		switch op {
		case OpSkip:
			jumps[i] = unmatched
			open = append(open, i)
		case OpLoop:
			jumps[i] = unmatched
			if n := len(open); n > 0 {
				start := open[n-1]
				open = open[:n-1]
				jumps[start] = i
				jumps[i] = start
			}
		}
	}
	return jumps
}
