package launcher

import (
	"slices"

	"github.com/lixenwraith/ordnance/core"
	"github.com/lixenwraith/ordnance/diag"
	"github.com/lixenwraith/ordnance/firecontrol"
	"github.com/lixenwraith/ordnance/trajectory"
)

// Rocket swings out of the socket on a random yaw before flying straight at the target
type Rocket struct {
	base
	swing trajectory.SwingParams
}

func NewRocket(swing trajectory.SwingParams, deps Deps) (*Rocket, error) {
	return &Rocket{base: newBase(KindRocket, deps), swing: swing}, nil
}

func (r *Rocket) Discharge(shot firecontrol.Shot) bool {
	if r.w == nil {
		return false
	}
	path := trajectory.NewRocketSwing(shot.Origin.Location, r.aimPoint(shot), shot.Data.ProjectileSpeed, r.swing, r.w.RNG())
	return r.launch(shot, path, path.Duration(), false, r.arrive)
}

// Staged launches vertically, arcs over toward the target and dives straight in
// With instances enabled, each socket shows a loaded rocket that hides when fired
type Staged struct {
	base
	params    trajectory.StagedParams
	instances bool

	mesh     core.InstancedMesh
	attached map[string]int // Every instance added to mesh, by socket
	sockets  []string       // Socket list slots were built for
	bound    bool
	slots    map[string]int // Socket to instance index, nil when the mapping is unusable
}

func NewStaged(params trajectory.StagedParams, instances bool, deps Deps) (*Staged, error) {
	return &Staged{base: newBase(KindStaged, deps), params: params, instances: instances}, nil
}

// Bind attaches one instance per socket, reusing instances already on the mesh,
// whenever the mesh or socket list changes, and re-arms them all
func (s *Staged) Bind(w *firecontrol.Weapon) error {
	if err := s.base.Bind(w); err != nil {
		return err
	}
	if !s.instances {
		return nil
	}
	mesh, ok := w.Mesh().(core.InstancedMesh)
	if !ok {
		w.Diag().ReportOnce("launcher.staged.instances:"+w.Name(), diag.KindConfig,
			"mesh cannot show rocket instances", "weapon", w.Name())
		return nil
	}
	if mesh != s.mesh {
		s.mesh = mesh
		s.attached = make(map[string]int)
		s.bound = false
	}
	if !s.bound || !slices.Equal(s.sockets, w.Sockets()) {
		s.sockets = slices.Clone(w.Sockets())
		s.slots = s.attach(w, mesh)
		s.bound = true
	}
	s.rearm()
	return nil
}

func (s *Staged) attach(w *firecontrol.Weapon, mesh core.InstancedMesh) map[string]int {
	slots := make(map[string]int, len(w.Sockets()))
	for _, socket := range w.Sockets() {
		if _, dup := slots[socket]; dup {
			// Two shots would share one rocket; show everything rather than guess
			w.Diag().Report(diag.KindConfig, "socket listed twice, instances left visible", "weapon", w.Name(), "socket", socket)
			return nil
		}
		idx, ok := s.attached[socket]
		if !ok {
			if idx, ok = mesh.AddInstance(socket); !ok {
				w.Diag().Report(diag.KindConfig, "instance not attached, instances left visible", "weapon", w.Name(), "socket", socket)
				return nil
			}
			s.attached[socket] = idx
		}
		slots[socket] = idx
	}
	return slots
}

// rearm shows every rocket on the mesh, including those of sockets no longer fired from
func (s *Staged) rearm() {
	if s.mesh == nil {
		return
	}
	for _, idx := range s.attached {
		s.mesh.SetInstanceHidden(idx, false)
	}
}

// OnReloaded re-arms all instances; a partial magazine is never mapped back to sockets
func (s *Staged) OnReloaded() {
	s.rearm()
}

// Instance returns the instance index for socket
func (s *Staged) Instance(socket string) (int, bool) {
	idx, ok := s.slots[socket]
	return idx, ok
}

func (s *Staged) Discharge(shot firecontrol.Shot) bool {
	if s.w == nil {
		return false
	}
	path := trajectory.NewStaged(shot.Origin.Location, s.aimPoint(shot), shot.Data.ProjectileSpeed, s.params, s.w.RNG())
	if !s.launch(shot, path, path.Duration(), false, s.arrive) {
		return false
	}
	if idx, ok := s.slots[shot.Socket]; ok && s.mesh != nil {
		s.mesh.SetInstanceHidden(idx, true)
	}
	return true
}
