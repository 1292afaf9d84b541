package testutil

// Memory limit encodings for ProbeModule.
var (
	// OnePageMax16 is min 1 page, max 16 pages.
	OnePageMax16 = []byte{0x01, 0x01, 0x10}
	// OnePageUnbounded is min 1 page with no declared maximum.
	OnePageUnbounded = []byte{0x00, 0x01}
)

// ProbeModule returns a module importing env.callStyleFunc, exporting its
// memory as "memory" and a function "probe" that forwards its three
// arguments to the import. memoryLimits is the raw limits encoding of the
// memory section.
func ProbeModule(memoryLimits ...byte) []byte {
	b := []byte{
		0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00, // magic, version
		0x01, 0x08, 0x01, 0x60, 0x03, 0x7f, 0x7f, 0x7f, 0x01, 0x7f, // type: (i32 i32 i32) -> i32
		0x02, 0x15, 0x01, // import section, one entry
		0x03, 'e', 'n', 'v',
		0x0d, 'c', 'a', 'l', 'l', 'S', 't', 'y', 'l', 'e', 'F', 'u', 'n', 'c',
		0x00, 0x00, // func, type 0
		0x03, 0x02, 0x01, 0x00, // function section: one func of type 0
	}
	b = append(b, 0x05, byte(len(memoryLimits)+1), 0x01)
	b = append(b, memoryLimits...)
	b = append(b,
		0x07, 0x12, 0x02, // export section, two entries
		0x06, 'm', 'e', 'm', 'o', 'r', 'y', 0x02, 0x00,
		0x05, 'p', 'r', 'o', 'b', 'e', 0x00, 0x01,
		0x0a, 0x0c, 0x01, 0x0a, 0x00, // code section, one body of 10 bytes
		0x20, 0x00, 0x20, 0x01, 0x20, 0x02, // local.get 0..2
		0x10, 0x00, // call 0
		0x0b, // end
	)
	return b
}
