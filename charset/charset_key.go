package charset

import "strconv"

// Key returns a byte-exact encoding of the canonical interval list,
// suitable for use as a hash-cons key by package expr. Two sets with
// the same Key are Equal, and vice versa.
func (s Set) Key() string {
	if len(s.ranges) == 0 {
		return ""
	}
	buf := make([]byte, 0, len(s.ranges)*16)
	for _, r := range s.ranges {
		buf = strconv.AppendInt(buf, int64(r.Lo), 16)
		buf = append(buf, ',')
		buf = strconv.AppendInt(buf, int64(r.Hi), 16)
		buf = append(buf, ';')
	}
	return string(buf)
}
