// swww-daemon negotiates a session with the wayland compositor and then
// serves the swww control socket. Image rendering is handled elsewhere;
// this binary owns the protocol bootstrap and answers client queries
// about the negotiated session.
package main

import (
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/JohnRTitor/swww/ipc"
	"github.com/JohnRTitor/swww/wl"
)

func main() {
	if err := run(); err != nil {
		logrus.Error(err)
		os.Exit(1)
	}
}

func run() error {
	var formatFlag string
	var logLevel string

	flagSet := pflag.NewFlagSet("swww-daemon", pflag.ContinueOnError)
	flagSet.StringVar(&formatFlag, "format", "", "force the wl_shm pixel format (bgr, rgb, xbgr or xrgb)")
	flagSet.StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}

	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		return err
	}
	logrus.SetLevel(level)

	var forced *ipc.PixelFormat
	if formatFlag != "" {
		f, err := ipc.ParsePixelFormat(formatFlag)
		if err != nil {
			return err
		}
		forced = &f
	}

	state, err := wl.Init(forced)
	if err != nil {
		return err
	}
	defer state.Conn().Close()

	logrus.WithFields(logrus.Fields{
		"pixel_format":     state.PixelFormat(),
		"fractional_scale": state.FractionalScaleSupport(),
		"outputs":          len(state.OutputNames()),
	}).Info("wayland session negotiated")

	return serve(state)
}

// serve answers control requests until a kill request or signal arrives.
func serve(state *wl.State) error {
	sockPath := ipc.SocketPath()
	listener, err := net.Listen("unix", sockPath)
	if err != nil {
		return errors.Wrapf(err, "unable to listen on control socket %s", sockPath)
	}
	defer os.Remove(sockPath)
	defer listener.Close()
	logrus.WithField("socket", sockPath).Info("listening for control requests")

	done := make(chan struct{})
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-sigs:
			logrus.WithField("signal", sig).Info("shutting down")
		case <-done:
		}
		listener.Close()
	}()

	for {
		conn, err := listener.Accept()
		if err != nil {
			// the signal handler closed the listener
			return nil
		}
		if quit := handle(conn, state); quit {
			close(done)
			return nil
		}
	}
}

func handle(conn net.Conn, state *wl.State) (quit bool) {
	defer conn.Close()
	req, err := ipc.ReadRequest(conn)
	if err != nil {
		if errors.Cause(err) != io.EOF {
			logrus.WithError(err).Error("failed to read control request")
		}
		return false
	}

	var ans ipc.Answer
	switch req.Type {
	case ipc.RequestPing:
		ans = ipc.Answer{Type: ipc.AnswerPing, Configured: true}
	case ipc.RequestQuery:
		infos := make([]ipc.BgInfo, 0, len(state.OutputNames()))
		for _, name := range state.OutputNames() {
			infos = append(infos, ipc.BgInfo{
				Name:        fmt.Sprintf("output-%d", name),
				ScaleFactor: 1,
				PixelFormat: state.PixelFormat(),
			})
		}
		ans = ipc.Answer{Type: ipc.AnswerInfo, Info: infos}
	case ipc.RequestKill:
		ans = ipc.Answer{Type: ipc.AnswerOk}
		quit = true
	default:
		ans = ipc.Answer{Type: ipc.AnswerErr, Err: "this daemon build does not render images"}
	}

	if err := ans.Send(conn); err != nil {
		logrus.WithError(err).Error("failed to send answer")
	}
	return quit
}
