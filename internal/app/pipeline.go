package app

import (
	"fmt"
	"image"
	"time"

	"github.com/ayusman/litmus/internal/classifier"
	"github.com/ayusman/litmus/internal/monitoring"
	"github.com/ayusman/litmus/internal/render"
	"github.com/ayusman/litmus/internal/stability"
	"github.com/ayusman/litmus/internal/status"
	"github.com/ayusman/litmus/internal/store"
	"github.com/ayusman/litmus/internal/transport"
	"github.com/ayusman/litmus/internal/watchdog"
	"gocv.io/x/gocv"
)

// StepResult summarises one loop iteration.
type StepResult struct {
	Result classifier.Result
	Output stability.Output
	// Record is the reading sent this frame, if any.
	Record *transport.Record
	FPS    float64
	Reset  bool
}

// Step runs one iteration of the frame loop:
//
//  1. tick the frame clock and read a frame
//  2. classify the search window
//  3. update the stability tracker
//  4. draw the detection overlay on a match
//  5. when stable, draw the reading and send it
//  6. feed the frame rate to the watchdog and reset the camera if asked
//
// Transport and history errors are logged, not returned. The returned
// error is either a frame read failure or ErrResetFailed.
func (a *App) Step() (StepResult, error) {
	a.clock.Tick()
	frame, err := a.config.Camera.NextFrame()
	if err != nil {
		return StepResult{}, fmt.Errorf("next frame: %w", err)
	}
	defer frame.Close()
	a.frames++

	var step StepResult
	enabled := a.Enabled()
	if enabled {
		res, err := a.config.Classifier.Classify(frame, a.config.Window)
		if err != nil {
			monitoring.Logf("classify: %v", err)
			res = classifier.Result{}
		}
		step.Result = res
		step.Output = a.tracker.Update(res)
	}
	res, out := step.Result, step.Output

	var overlay render.Overlay = render.Nop{}
	if a.config.Stream && a.config.Hub != nil {
		overlay = render.NewMatOverlay(frame)
	}

	if res.Matched() {
		render.DrawDetection(overlay, *res.Class, *res.Region)
	}

	if out.StableRegion != nil {
		a.stableClass = *res.Class
	}

	switch {
	case out.IsStable:
		render.DrawStable(overlay, a.stableClass, image.Pt(frame.Cols(), frame.Rows()))
		rec := transport.NewRecord(a.stableClass, out.StableRegion)
		step.Record = &rec
		if err := a.config.Sender.Send(rec); err != nil {
			monitoring.Logf("send reading failed: %v", err)
		}
		a.console("%s", rec)
		if out.StableRegion != nil && a.stableClass.ID != a.lastRecorded {
			a.recordReading(rec)
		}
	case res.Matched():
		a.console("detecting: %s | stability %d/%d",
			res.Class.Label(), a.tracker.State().ConsecutiveMatches, a.tracker.Config().Threshold)
	}

	fps := a.clock.FPS()
	step.FPS = fps
	if !out.IsStable && !res.Matched() {
		a.console("no strip detected | %.1f FPS", fps)
	}

	info := render.Info{
		Size:   image.Pt(frame.Cols(), frame.Rows()),
		FPS:    fps,
		Status: render.StatusOf(out.IsStable, res.Matched()),
		Window: a.config.Window,
		Region: res.Region,
	}
	if res.Region != nil {
		info.Lab, _ = render.SampleLab(frame, res.Region.Centroid)
	}
	render.DrawHUD(overlay, info)

	decision := a.watchdog.Observe(fps)
	a.publish(frame, step, info.Status, enabled)

	if decision == watchdog.ResetRequired {
		monitoring.Logf("low frame rate (%.1f FPS), resetting camera", fps)
		if err := a.resetCamera(store.ResetLowFPS, fps); err != nil {
			return step, err
		}
		step.Reset = true
	}

	return step, nil
}

// recordReading stores a change of the stable class and notifies callbacks.
func (a *App) recordReading(rec transport.Record) {
	a.lastRecorded = rec.ClassID
	monitoring.Logf("stable reading: %s (%s)", rec.ClassID, rec.ClassName)

	if a.config.Store != nil && a.session != nil {
		rd := &store.Reading{
			SessionID: a.session.ID,
			ClassID:   rec.ClassID,
			ClassName: rec.ClassName,
		}
		if rec.Position != nil {
			rd.CX, rd.CY = rec.Position[0], rec.Position[1]
		}
		if rec.Area != nil {
			rd.Area = *rec.Area
		}
		if err := a.config.Store.Readings().Create(rd); err != nil {
			monitoring.Logf("failed to record reading: %v", err)
		}
	}

	a.notify(rec)
}

// publish hands the frame snapshot to the status hub.
func (a *App) publish(frame *gocv.Mat, step StepResult, st render.Status, enabled bool) {
	if a.config.Hub == nil {
		return
	}

	out := step.Output
	snap := status.Snapshot{
		Frame:       a.frames,
		Time:        time.Now(),
		Label:       step.Result.Label(),
		Region:      step.Result.Region,
		Progress:    out.Progress,
		IsStable:    out.IsStable,
		StableLabel: out.StableLabel,
		Phase:       out.Phase.String(),
		Status:      st.String(),
		FPS:         step.FPS,
		Health:      a.watchdog.Health(),
		Enabled:     enabled,
	}
	if step.Result.Matched() {
		snap.ClassName = step.Result.Class.Name
	}
	if out.StableLabel != "" && out.StableLabel == a.stableClass.ID {
		snap.StableName = a.stableClass.Name
	}

	var jpeg []byte
	if a.config.Stream {
		buf, err := gocv.IMEncode(".jpg", *frame)
		if err != nil {
			monitoring.Logf("encode frame: %v", err)
		} else {
			jpeg = append([]byte(nil), buf.GetBytes()...)
			buf.Close()
		}
	}

	a.config.Hub.Publish(snap, jpeg)
}

func (a *App) console(format string, v ...interface{}) {
	if a.config.Quiet {
		return
	}
	monitoring.Logf(format, v...)
}
