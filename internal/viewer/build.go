package viewer

import (
	"fmt"
	"math/rand/v2"

	"github.com/Faultbox/mobius-paper/internal/assets"
	"github.com/Faultbox/mobius-paper/internal/config"
	"github.com/Faultbox/mobius-paper/internal/engine/camera"
	"github.com/Faultbox/mobius-paper/internal/engine/lighting"
	"github.com/Faultbox/mobius-paper/internal/engine/motion"
	"github.com/Faultbox/mobius-paper/pkg/math"
	"github.com/Faultbox/mobius-paper/pkg/mobius"
	"github.com/Faultbox/mobius-paper/pkg/paper"
)

// PageOptions returns rasterizer options for the page section. A nil
// seed leaves the grain unseeded.
func PageOptions(pc config.PageConfig) paper.Options {
	opts := paper.Options{DPI: pc.DPI}
	if pc.Seed != nil {
		opts.Rand = rand.New(rand.NewPCG(*pc.Seed, 0))
	}
	return opts
}

// NewAssets returns an asset manager that also searches the config
// directory, so a bare text file name can sit next to config.yaml.
func NewAssets() *assets.Manager {
	am := assets.NewManager()
	am.AddDir(config.ConfigDir())
	return am
}

// BuildPage loads the page text and rasterizes it.
func BuildPage(cfg *config.Config, am *assets.Manager) (*paper.Texture, error) {
	text, err := am.PageText(cfg.Page.TextFile)
	if err != nil {
		return nil, fmt.Errorf("page text: %w", err)
	}

	tex, err := paper.Rasterize(text, PageOptions(cfg.Page))
	if err != nil {
		return nil, fmt.Errorf("rasterizing page: %w", err)
	}
	return tex, nil
}

// BuildMesh generates the strip.
func BuildMesh(cfg *config.Config) (*mobius.Mesh, error) {
	mesh, err := mobius.Generate(cfg.Strip.Params())
	if err != nil {
		return nil, fmt.Errorf("generating strip: %w", err)
	}
	return mesh, nil
}

// Rates returns the spin rates, zero when paused.
func Rates(ac config.AnimationConfig) motion.Rates {
	if ac.Paused {
		return motion.Rates{}
	}
	return motion.Rates{X: ac.RateX, Y: ac.RateY}
}

// Rig builds white lights from the lighting section.
func Rig(lc config.LightingConfig) lighting.Rig {
	rig := lighting.DefaultRig()
	rig.Ambient.Intensity = lc.AmbientIntensity
	rig.Sun.Position = lc.SunPosition
	rig.Sun.Intensity = lc.SunIntensity
	return rig
}

// NewCamera places the orbit camera and returns it with its projection.
func NewCamera(cc config.CameraConfig) (*camera.OrbitCamera, camera.Projection) {
	cam := camera.NewOrbitCamera(math.Vec3From(cc.Position), math.Vec3{}, cc.MinDistance, cc.MaxDistance)
	proj := camera.Projection{FovY: cc.FOV, Near: cc.Near, Far: cc.Far}
	return cam, proj
}
