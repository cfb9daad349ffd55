package uoled

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// sendCMD writes a command, possibly split into several parts, and waits for
// the single reply that acknowledges it.
func (d *Device) sendCMD(ctx context.Context, frame []byte, parts ...[]byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.sendFrame(frame, parts...); err != nil {
		return err
	}

	reply, err := d.recv(ctx, 1)
	if err != nil {
		return err
	}

	return d.checkAck(reply)
}

// sendQuery writes a command whose reply carries want bytes of data.
func (d *Device) sendQuery(ctx context.Context, want int, frame []byte) ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.sendFrame(frame); err != nil {
		return nil, err
	}

	reply, err := d.recv(ctx, want)
	if err != nil {
		return nil, err
	}

	return reply[:want], nil
}

func (d *Device) sendFrame(frame []byte, parts ...[]byte) error {
	if !d.serial.IsOpen() {
		return ErrClosed
	}

	if err := d.sendBytes(frame); err != nil {
		return err
	}

	for _, p := range parts {
		if err := d.sendBytes(p); err != nil {
			return err
		}
	}

	return nil
}

func (d *Device) sendBytes(bytes []byte) error {
	var sent int
	var cost time.Duration

	start := time.Now()
	if n, err := d.serial.Write(bytes); err != nil {
		return &TransportError{Op: "write", Err: err}
	} else {
		sent = n
		cost = time.Since(start)
	}

	ext := ""
	if len(bytes) <= 16 {
		ext = fmt.Sprintf("%x", bytes)
	}

	d.logger.With(
		zap.Int("sent", sent),
		zap.String("cost", cost.String()),
		zap.String("data", ext),
	).Debug("transfer")

	return nil
}

// recv reads until at least want bytes arrived. Each transport read is
// bounded by the poll interval; the whole wait by AckTimeout and ctx.
func (d *Device) recv(ctx context.Context, want int) ([]byte, error) {
	if d.config.AckTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.config.AckTimeout)
		defer cancel()
	}

	start := time.Now()
	buf := make([]byte, 64)
	var reply []byte

	for len(reply) < want {
		if err := ctx.Err(); err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				return nil, errors.Wrapf(ErrAckTimeout, "got %d of %d bytes after %s", len(reply), want, time.Since(start))
			}
			return nil, errors.Wrap(err, "uoled: waiting for reply")
		}

		n, err := d.serial.Read(buf)
		if err != nil {
			return nil, &TransportError{Op: "read", Err: err}
		}
		reply = append(reply, buf[:n]...)
	}

	d.logger.With(
		zap.Int("recv", len(reply)),
		zap.String("cost", time.Since(start).String()),
		zap.String("data", fmt.Sprintf("%x", reply)),
	).Debug("reply")

	if d.config.ReplyHook != nil {
		d.config.ReplyHook(reply)
	}

	return reply, nil
}

// checkAck accepts any reply unless strict acknowledgement is configured.
func (d *Device) checkAck(reply []byte) error {
	if !d.config.StrictAck {
		return nil
	}

	switch reply[0] {
	case ACK:
		return nil
	case NAK:
		return ErrNak
	default:
		return errors.Wrapf(ErrUnexpectedAck, "0x%02X", reply[0])
	}
}
