package player

// Snapshot is a point-in-time view of a player's state.
type Snapshot struct {
	ID        string   `json:"id"`
	Status    string   `json:"status"`
	LoadState string   `json:"load_state"`
	Frame     int      `json:"frame"`
	Displayed int      `json:"displayed"`
	Total     int      `json:"total"`
	Loaded    int      `json:"loaded"`
	FPS       float64  `json:"fps"`
	RealFps   float64  `json:"real_fps"`
	Repeat    bool     `json:"repeat"`
	Backwards bool     `json:"backwards"`
	Clips     []string `json:"clips"`
}

// Snapshot returns the player's current state in one consistent read.
func (p *Player) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()

	clips := make([]string, 0, p.clips.Len())
	for _, c := range p.clips.Queue() {
		clips = append(clips, c.Name)
	}
	return Snapshot{
		ID:        p.id.String(),
		Status:    p.status.String(),
		LoadState: p.load.String(),
		Frame:     p.current,
		Displayed: p.displayed,
		Total:     p.frames.Total(),
		Loaded:    p.frames.LoadedCount(),
		FPS:       p.cfg.FPS,
		RealFps:   p.realFps,
		Repeat:    p.cfg.Repeat,
		Backwards: p.cfg.PlayBackwards,
		Clips:     clips,
	}
}
