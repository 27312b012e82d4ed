package topology

// DefaultSeed returns the demo lab loaded when no topology file is given:
// a head server, a NAS and two mini PCs hanging off a 10G switch.
func DefaultSeed() Snapshot {
	return Snapshot{
		Nodes: []Node{
			{Name: "head-01", Type: TypeHeadServer, CPU: 16, RAM: 64, Net: 10, VRAM: 24},
			{Name: "nas-01", Type: TypeNAS, CPU: 4, RAM: 16, Net: 10, VRAM: 0},
			{Name: "sw-10g", Type: TypeSwitch, CPU: 0, RAM: 0, Net: 10, VRAM: 0},
			{Name: "mini-01", Type: TypeMiniPC, CPU: 8, RAM: 32, Net: 2.5, VRAM: 0},
			{Name: "mini-02", Type: TypeMiniPC, CPU: 8, RAM: 32, Net: 2.5, VRAM: 8},
		},
		Links: []Link{
			{Source: "head-01", Target: "sw-10g", BW: 10, Media: MediaDAC},
			{Source: "nas-01", Target: "sw-10g", BW: 10, Media: MediaDAC},
			{Source: "mini-01", Target: "sw-10g", BW: 2.5, Media: MediaEthernet},
			{Source: "mini-02", Target: "sw-10g", BW: 2.5, Media: MediaEthernet},
		},
	}
}

// NewSeeded creates a store holding [DefaultSeed].
func NewSeeded() *Store {
	s := New()
	seed := DefaultSeed()
	// The demo seed is valid by construction.
	_ = s.Seed(seed.Nodes, seed.Links)
	return s
}
