package seq

import (
	"context"
	"fmt"

	"github.com/golang/glog"

	"github.com/robotalks/axpose/pkg/ax/comm"
)

// Downloader sends sequences to the controller board.
type Downloader struct {
	Client   *comm.Client
	PoseSize int
}

// NewDownloader creates a Downloader for poses of poseSize actuators.
func NewDownloader(client *comm.Client, poseSize int) *Downloader {
	return &Downloader{Client: client, PoseSize: poseSize}
}

// Download encodes s, uploads poses and transitions, and starts playback.
// The bus is held for the whole download. The first failure aborts the
// remaining steps and is returned as a *StepError; steps already sent are
// not undone, so the board's state is undefined until a download succeeds.
// Besides transport and checksum errors, a non-zero status answered by the
// board for any step also aborts, wrapped as a *comm.StatusError.
func (d *Downloader) Download(ctx context.Context, s Sequence, poses Poses, mode Mode) (*Plan, error) {
	plan, err := Encode(s, poses, d.PoseSize)
	if err != nil {
		return nil, err
	}
	pkts := plan.Packets(mode)
	err = d.Client.Exclusive(func(bus comm.Bus) error {
		for _, pkt := range pkts {
			step := stepName(pkt)
			if err := ctx.Err(); err != nil {
				return &StepError{Step: step, Err: err}
			}
			glog.V(1).Infof("download %s (%d params)", step, len(pkt.Params))
			resp, err := bus.Execute(pkt.ID, pkt.Instruction, pkt.Params)
			if err != nil {
				return &StepError{Step: step, Err: err}
			}
			if !resp.Status.OK() {
				return &StepError{Step: step, Err: &comm.StatusError{ID: resp.ID, Status: resp.Status}}
			}
		}
		return nil
	})
	if err != nil {
		glog.Warningf("download aborted: %v", err)
		return nil, err
	}
	glog.Infof("downloaded %d poses, %d transitions, %s", len(plan.Poses), len(s), mode)
	return plan, nil
}

// Halt stops playback. It is a single raw byte outside packet framing.
func (d *Downloader) Halt() error {
	return d.Client.WriteRaw(comm.HaltByte)
}

func stepName(pkt *comm.Packet) string {
	if pkt.Instruction == comm.LoadPose {
		return fmt.Sprintf("%s[%d]", pkt.Instruction, pkt.Params[0])
	}
	return pkt.Instruction.String()
}

// CapturePose reads the current value of a register pair, e.g. the present
// position, from devices 1..count.
func CapturePose(c *comm.Client, count int, reg byte) (Pose, error) {
	pose := make(Pose, count)
	for n := range pose {
		vals, _, err := c.ReadData(comm.DeviceID(n+1), reg, 2)
		if err != nil {
			return nil, fmt.Errorf("device %d: %w", n+1, err)
		}
		pose[n] = uint16(vals[0]) | uint16(vals[1])<<8
	}
	return pose, nil
}
