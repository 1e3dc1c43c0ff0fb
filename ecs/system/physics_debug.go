package system

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/piggysouls/common"
	"github.com/milk9111/piggysouls/ecs"
	"github.com/milk9111/piggysouls/ecs/component"
	"golang.org/x/image/colornames"
)

const (
	debugCircleSegments = 32
	debugDotSize        = 4
	debugPixelsPerUnit  = 24
)

var (
	debugPlayerColor = colornames.Gold
	debugCameraColor = colornames.Deepskyblue
	debugBlockColor  = colornames.Crimson
)

// DrawPhysicsDebug draws a top-down view centered on the player: static box
// footprints from the broadphase, the player collider, and the camera's line
// of sight.
func DrawPhysicsDebug(w *ecs.World, screen *ebiten.Image) {
	if w == nil || screen == nil {
		return
	}
	pw := w.PhysicsWorld()
	if pw == nil {
		return
	}

	bounds := screen.Bounds()
	drawer := &physicsDebugDrawer{
		screen: screen,
		zoom:   debugPixelsPerUnit,
		halfW:  float64(bounds.Dx()) / 2,
		halfH:  float64(bounds.Dy()) / 2,
	}

	player, hasPlayer := w.Player()
	if hasPlayer {
		if t, ok := ecs.Get(w, player, component.TransformComponent.Kind()); ok {
			drawer.centerX, drawer.centerZ = t.Position.X(), t.Position.Z()
		}
	}

	cp.DrawSpace(pw.Space(), drawer)

	if !hasPlayer {
		return
	}
	t, ok := ecs.Get(w, player, component.TransformComponent.Kind())
	if !ok {
		return
	}
	radius := defaultDebugRadius
	if col, ok := ecs.Get(w, player, component.ColliderComponent.Kind()); ok && col.Radius > 0 {
		radius = col.Radius
	}
	pos := cp.Vector{X: t.Position.X(), Y: t.Position.Z()}
	facing := t.Rotation.Rotate(common.Forward)
	drawer.drawCircle(pos, radius, debugPlayerColor)
	drawer.drawLine(pos, cp.Vector{X: pos.X + facing.X()*radius*2, Y: pos.Y + facing.Z()*radius*2}, debugPlayerColor)

	camera, ok := w.Camera()
	if !ok {
		return
	}
	ct, ok := ecs.Get(w, camera, component.TransformComponent.Kind())
	if !ok {
		return
	}
	lineColor := color.Color(debugCameraColor)
	if rig, ok := ecs.Get(w, camera, component.CameraRigStateComponent.Kind()); ok && rig.Colliding {
		lineColor = debugBlockColor
	}
	camPos := cp.Vector{X: ct.Position.X(), Y: ct.Position.Z()}
	drawer.drawLine(camPos, pos, lineColor)
	drawer.drawDot(camPos, lineColor)
}

const defaultDebugRadius = 0.5

// DrawPlayerStateDebug prints the controller state in the top-left corner.
func DrawPlayerStateDebug(w *ecs.World, screen *ebiten.Image) {
	if w == nil || screen == nil {
		return
	}
	player, ok := w.Player()
	if !ok {
		return
	}
	p, ok := ecs.Get(w, player, component.PlayerComponent.Kind())
	if !ok {
		return
	}

	ground := component.GroundNone
	slope := 0.0
	if gs, ok := ecs.Get(w, player, component.GroundSensorComponent.Kind()); ok {
		ground = gs.Class
		slope = gs.SlopeAngle * 180 / math.Pi
	}
	vel := 0.0
	if rb, ok := ecs.Get(w, player, component.RigidBodyComponent.Kind()); ok {
		vel = rb.LinearVelocity.Len()
	}

	text := fmt.Sprintf("Ground: %s (%.1f deg)\nStamina: %.0f/%.0f\nSprinting: %v  Rolling: %v  Blocking: %v\nExhausted: %v  Coyote: %.2f\nSpeed: %.2f",
		ground, slope, p.Stamina, p.MaxStamina, p.IsSprinting, p.IsRolling, p.IsBlocking, p.Exhausted, p.CoyoteTimer, vel)

	if camera, ok := w.Camera(); ok {
		if cam, ok := ecs.Get(w, camera, component.ThirdPersonCameraComponent.Kind()); ok {
			text += fmt.Sprintf("\nCamera: yaw %.2f pitch %.2f dist %.2f", cam.Yaw, cam.Pitch, cam.Distance)
		}
		if rig, ok := ecs.Get(w, camera, component.CameraRigStateComponent.Kind()); ok && rig.Colliding {
			text += fmt.Sprintf(" (blocked, %.2f)", rig.EffectiveDistance)
		}
	}
	ebitenutil.DebugPrintAt(screen, text, 10, 24)
}

type physicsDebugDrawer struct {
	screen  *ebiten.Image
	centerX float64
	centerZ float64
	zoom    float64
	halfW   float64
	halfH   float64
}

func (d *physicsDebugDrawer) DrawCircle(pos cp.Vector, angle, radius float64, outline, fill cp.FColor, data interface{}) {
	d.drawCircle(pos, radius, toNRGBA(outline))
}

func (d *physicsDebugDrawer) DrawSegment(a, b cp.Vector, fill cp.FColor, data interface{}) {
	d.drawLine(a, b, toNRGBA(fill))
}

func (d *physicsDebugDrawer) DrawFatSegment(a, b cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	d.drawLine(a, b, toNRGBA(outline))
}

func (d *physicsDebugDrawer) DrawPolygon(count int, verts []cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	if count <= 0 {
		return
	}
	d.drawPolygon(verts[:count], toNRGBA(outline))
}

func (d *physicsDebugDrawer) DrawDot(size float64, pos cp.Vector, fill cp.FColor, data interface{}) {
	d.drawDot(pos, toNRGBA(fill))
}

func (d *physicsDebugDrawer) Flags() uint {
	return cp.DRAW_SHAPES
}

func (d *physicsDebugDrawer) OutlineColor() cp.FColor {
	return cp.FColor{R: 0.55, G: 0.6, B: 0.7, A: 1}
}

func (d *physicsDebugDrawer) ShapeColor(shape *cp.Shape, data interface{}) cp.FColor {
	return cp.FColor{R: 0.25, G: 0.3, B: 0.38, A: 0.6}
}

func (d *physicsDebugDrawer) ConstraintColor() cp.FColor {
	return cp.FColor{R: 0.9, G: 0.7, B: 0.2, A: 1}
}

func (d *physicsDebugDrawer) CollisionPointColor() cp.FColor {
	return cp.FColor{R: 0.95, G: 0.3, B: 0.3, A: 1}
}

func (d *physicsDebugDrawer) Data() interface{} {
	return nil
}

func (d *physicsDebugDrawer) drawLine(a, b cp.Vector, clr color.Color) {
	x1, y1 := d.toScreen(a)
	x2, y2 := d.toScreen(b)
	vector.StrokeLine(d.screen, x1, y1, x2, y2, 1, clr, true)
}

func (d *physicsDebugDrawer) drawPolygon(verts []cp.Vector, clr color.Color) {
	for i := range verts {
		d.drawLine(verts[i], verts[(i+1)%len(verts)], clr)
	}
}

func (d *physicsDebugDrawer) drawCircle(center cp.Vector, radius float64, clr color.Color) {
	if radius <= 0 {
		return
	}
	points := make([]cp.Vector, 0, debugCircleSegments)
	for i := 0; i < debugCircleSegments; i++ {
		t := (2 * math.Pi) * (float64(i) / float64(debugCircleSegments))
		points = append(points, cp.Vector{X: center.X + math.Cos(t)*radius, Y: center.Y + math.Sin(t)*radius})
	}
	d.drawPolygon(points, clr)
}

func (d *physicsDebugDrawer) drawDot(pos cp.Vector, clr color.Color) {
	x, y := d.toScreen(pos)
	vector.FillRect(d.screen, x-debugDotSize/2, y-debugDotSize/2, debugDotSize, debugDotSize, clr, false)
}

// toScreen maps world XZ to screen space with +Z pointing down.
func (d *physicsDebugDrawer) toScreen(v cp.Vector) (float32, float32) {
	return float32((v.X-d.centerX)*d.zoom + d.halfW), float32((v.Y-d.centerZ)*d.zoom + d.halfH)
}

func toNRGBA(c cp.FColor) color.NRGBA {
	return color.NRGBA{
		R: uint8(clamp01(c.R) * 255),
		G: uint8(clamp01(c.G) * 255),
		B: uint8(clamp01(c.B) * 255),
		A: uint8(clamp01(c.A) * 255),
	}
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
