package model

import "time"

// VersionedRecord captures schema and codec evolution for persistent data.
type VersionedRecord struct {
	SchemaVersion int `json:"schema_version"`
	CodecVersion  int `json:"codec_version"`
}

// Team identifiers for the two sides of a match.
const (
	BlueTeam   = 0
	OrangeTeam = 1
)

// PhysicsObject is the kinematic state of a single body in the arena.
type PhysicsObject struct {
	Position        [3]float64 `json:"position"`
	Velocity        [3]float64 `json:"velocity"`
	AngularVelocity [3]float64 `json:"angular_velocity"`
}

// CarControls is a parsed, continuous control signal for one car.
type CarControls struct {
	Throttle  float64 `json:"throttle"`
	Steer     float64 `json:"steer"`
	Pitch     float64 `json:"pitch"`
	Yaw       float64 `json:"yaw"`
	Roll      float64 `json:"roll"`
	Jump      bool    `json:"jump"`
	Boost     bool    `json:"boost"`
	Handbrake bool    `json:"handbrake"`
}

// PlayerCar is one controllable agent in the match.
type PlayerCar struct {
	ID       int           `json:"id"`
	Team     int           `json:"team"`
	Boost    float64       `json:"boost"`
	OnGround bool          `json:"on_ground"`
	Car      PhysicsObject `json:"car"`
}

// GameState is the full simulated world at one tick.
type GameState struct {
	Tick        int64         `json:"tick"`
	Ball        PhysicsObject `json:"ball"`
	Players     []PlayerCar   `json:"players"`
	BlueScore   int           `json:"blue_score"`
	OrangeScore int           `json:"orange_score"`
}

// BlueCount returns the number of players on the blue team.
func (s *GameState) BlueCount() int {
	return s.teamCount(BlueTeam)
}

// OrangeCount returns the number of players on the orange team.
func (s *GameState) OrangeCount() int {
	return s.teamCount(OrangeTeam)
}

func (s *GameState) teamCount(team int) int {
	n := 0
	for _, p := range s.Players {
		if p.Team == team {
			n++
		}
	}
	return n
}

// Space describes the shape of an observation or action signal.
type Space interface {
	Shape() []int
}

// BoxSpace is a continuous space with per-dimension bounds.
type BoxSpace struct {
	Low  float64
	High float64
	Dims []int
}

func (s BoxSpace) Shape() []int {
	return append([]int(nil), s.Dims...)
}

// DiscreteSpace describes N parallel choices with Options values each.
type DiscreteSpace struct {
	N       int
	Options int
}

func (s DiscreteSpace) Shape() []int {
	return []int{s.N}
}

// EpisodeRecord is one completed episode's exposure, persisted by the store.
type EpisodeRecord struct {
	VersionedRecord
	RunID      string    `json:"run_id"`
	EpisodeID  string    `json:"episode_id"`
	Opponents  bool      `json:"opponents"`
	TeamSize   int       `json:"team_size"`
	AgentSteps uint64    `json:"agent_steps"`
	StartedAt  time.Time `json:"started_at"`
	EndedAt    time.Time `json:"ended_at"`
}

// ExposureBucket is the cumulative agent-step count for one configuration.
type ExposureBucket struct {
	Opponents  bool   `json:"opponents"`
	TeamSize   int    `json:"team_size"`
	AgentSteps uint64 `json:"agent_steps"`
}
