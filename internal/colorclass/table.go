package colorclass

// DefaultTable returns the fourteen pH classes, strongest acid first.
// The ranges were tuned empirically and overlap between neighbours;
// classification resolves overlaps by region area, not by the table.
func DefaultTable() []Class {
	return []Class{
		// strong acid: red / orange
		{ID: "pH1", Name: "red", Signature: Sig(25, 100, 25, 127, 10, 90), Display: RGB{255, 0, 0}},
		{ID: "pH2", Name: "deep red", Signature: Sig(30, 95, 20, 120, 15, 100), Display: RGB{255, 50, 0}},
		{ID: "pH3", Name: "orange red", Signature: Sig(35, 90, 10, 110, 25, 110), Display: RGB{255, 100, 0}},

		// weak acid: yellow / yellow-green
		{ID: "pH4", Name: "orange yellow", Signature: Sig(40, 85, 0, 100, 40, 120), Display: RGB{255, 150, 0}},
		{ID: "pH5", Name: "yellow", Signature: Sig(45, 80, -10, 90, 50, 130), Display: RGB{255, 200, 0}},
		{ID: "pH6", Name: "yellow green", Signature: Sig(40, 75, -15, 40, 35, 110), Display: RGB{150, 255, 0}},

		// neutral
		{ID: "pH7", Name: "green", Signature: Sig(35, 70, -25, 25, 25, 90), Display: RGB{0, 255, 0}},

		// weak base: cyan / blue
		{ID: "pH8", Name: "cyan", Signature: Sig(30, 65, -35, 15, 0, 80), Display: RGB{0, 200, 200}},
		{ID: "pH9", Name: "blue cyan", Signature: Sig(25, 60, -45, 5, -15, 70), Display: RGB{0, 100, 255}},
		{ID: "pH10", Name: "blue", Signature: Sig(20, 55, -55, -5, -25, 60), Display: RGB{0, 0, 200}},

		// strong base: violet / indigo
		{ID: "pH11", Name: "violet blue", Signature: Sig(15, 50, -65, -15, -35, 50), Display: RGB{100, 0, 150}},
		{ID: "pH12", Name: "violet", Signature: Sig(10, 45, -75, -25, -45, 40), Display: RGB{150, 0, 150}},
		{ID: "pH13", Name: "deep violet", Signature: Sig(5, 40, -85, -35, -55, 30), Display: RGB{200, 0, 150}},
		{ID: "pH14", Name: "magenta", Signature: Sig(0, 35, -95, -45, -65, 20), Display: RGB{255, 0, 150}},
	}
}

// Default returns the registry built from DefaultTable.
func Default() *Set {
	return MustNewSet(DefaultTable())
}
