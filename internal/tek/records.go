package tek

// RecordSize is the maximum payload length of one tape record.
const RecordSize = 8175

// TapeRecords frames raw R12 draw command bytes into tape records for the
// Flash Drive tape emulator. The input is split into chunks of at most
// RecordSize bytes; each becomes a record of a 2-byte length header (high
// length byte OR'd with the 0x40 marker, then the low byte), the payload, and
// one trailing zero byte. For every record after the first, the 0x40
// continuation bit is OR'd into the third-from-last byte of the previous
// record, which is how the playback program knows more records follow.
//
// The stream ends with a three-byte sentinel record holding the one-character
// payload "X", which tells the playback program to stop reading.
func TapeRecords(data []byte) []byte {
	var out []byte
	prevEnd := 0
	for p := 0; p < len(data); p += RecordSize {
		end := p + RecordSize
		if end > len(data) {
			end = len(data)
		}
		chunk := data[p:end]

		if prevEnd > 0 {
			out[prevEnd-3] |= 0x40 // continuation link
		}
		out = append(out, 0x40|byte(len(chunk)>>8), byte(len(chunk)&0xff))
		out = append(out, chunk...)
		out = append(out, 0)
		prevEnd = len(out)
	}
	return append(out, 0x40, 0x01, 'X')
}
