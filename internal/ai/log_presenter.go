package ai

import (
	"log/slog"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/udisondev/hunter/internal/model"
)

// LogPresenter is a Presenter for headless hosts: discrete cues are logged at
// debug, continuous parameters are dropped.
type LogPresenter struct {
	Hunter uint32
}

func (p LogPresenter) log(msg string, args ...any) {
	if !IsDebugEnabled() {
		return
	}
	slog.Debug(msg, append([]any{"hunter", p.Hunter}, args...)...)
}

func (p LogPresenter) SetTrigger(name string)      { p.log("animation trigger", "name", name) }
func (p LogPresenter) SetBool(name string, v bool) { p.log("animation flag", "name", name, "value", v) }

func (p LogPresenter) PlayOneShot(clip string, volume float64) {
	p.log("audio one-shot", "clip", clip, "volume", volume)
}

func (p LogPresenter) PlayLoop(clip string, volume float64) {
	p.log("audio loop", "clip", clip, "volume", volume)
}

func (p LogPresenter) StopLoop()                      { p.log("audio loop stopped") }
func (p LogPresenter) SendParticleEvent(event string) { p.log("particle event", "event", event) }
func (LogPresenter) SetEyeEmission(model.Color)       {}
func (LogPresenter) SetInternalLight(float64)         {}
func (LogPresenter) SetScrapeLights(bool, float64)    {}

func (p LogPresenter) SpawnExplosion(at mgl64.Vec3, big bool) {
	p.log("explosion", "at", at, "big", big)
}

var _ Presenter = LogPresenter{}
