package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/benoitkugler/svgview/config"
	"github.com/benoitkugler/svgview/svgicon"
	"github.com/benoitkugler/svgview/svgpath"
	"github.com/benoitkugler/svgview/svgview"
)

// parseNumbers reads exactly `count` numbers separated by commas or spaces.
func parseNumbers(s string, count int) ([]float64, error) {
	nums, err := svgpath.ParseNumberList(s)
	if err != nil {
		return nil, fmt.Errorf("invalid numbers %q: %w", s, err)
	}
	if len(nums) != count {
		return nil, fmt.Errorf("invalid numbers %q: expected %d values, got %d", s, count, len(nums))
	}
	return nums, nil
}

func parsePoint(s string) (svgpath.Point, error) {
	nums, err := parseNumbers(s, 2)
	if err != nil {
		return svgpath.Point{}, err
	}
	return svgpath.Point{X: nums[0], Y: nums[1]}, nil
}

// viewFrame returns the frame requested on the command line or in the
// configuration. When only one dimension is given, the other one
// follows the document aspect ratio.
func viewFrame(cfg *config.Config, cmd *cli.Command, doc svgpath.Size) svgpath.Size {
	width, height := cfg.View.Width, cfg.View.Height
	if cmd.IsSet("width") {
		width = cmd.Int("width")
	}
	if cmd.IsSet("height") {
		height = cmd.Int("height")
	}
	frame := svgpath.Size{W: float64(width), H: float64(height)}
	switch {
	case frame.W > 0 && frame.H <= 0:
		frame.H = frame.W * doc.H / doc.W
	case frame.H > 0 && frame.W <= 0:
		frame.W = frame.H * doc.W / doc.H
	}
	return frame
}

// openSession loads the document at `src` and applies the view flags.
func openSession(env *localEnv, cmd *cli.Command, host svgview.Host, log *zap.Logger) (*svgview.Session, error) {
	opts, err := env.Cfg.Parse.ParseOptions()
	if err != nil {
		return nil, err
	}
	session := svgview.NewSession(host, svgview.WithLogger(log), svgview.WithParseOptions(opts...))

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return nil, errors.New("no input source has been specified")
	}
	if err := session.LoadFile(src); err != nil {
		return nil, fmt.Errorf("unable to load '%s': %w", src, err)
	}
	for _, w := range session.Document().Warnings {
		log.Debug("Skipped content", zap.Error(w))
	}

	session.SetViewFrame(viewFrame(env.Cfg, cmd, session.DocumentSize()))

	if cmd.IsSet("scale") {
		session.SetScale(cmd.Float("scale"))
	}
	if cmd.IsSet("scale-x") {
		session.SetScaleX(cmd.Float("scale-x"))
	}
	if cmd.IsSet("scale-y") {
		session.SetScaleY(cmd.Float("scale-y"))
	}
	if cmd.IsSet("offset-x") {
		session.SetOffsetX(cmd.Float("offset-x"))
	}
	if cmd.IsSet("offset-y") {
		session.SetOffsetY(cmd.Float("offset-y"))
	}
	if cmd.IsSet("rotate") {
		session.SetRotation(cmd.Float("rotate"))
	} else if env.Cfg.View.Rotation != 0 {
		session.SetRotation(env.Cfg.View.Rotation)
	}
	if box := cmd.String("locate"); len(box) > 0 {
		nums, err := parseNumbers(box, 4)
		if err != nil {
			return nil, fmt.Errorf("unable to locate document: %w", err)
		}
		session.Locate(svgpath.Point{X: nums[0], Y: nums[1]}, svgpath.Size{W: nums[2], H: nums[3]})
	}

	vs := session.ViewState()
	log.Debug("View prepared", zap.Float64("frame width", session.ViewFrame().W), zap.Float64("frame height", session.ViewFrame().H),
		zap.Float64("scale x", vs.ScaleX), zap.Float64("scale y", vs.ScaleY),
		zap.Float64("offset x", vs.OffsetX), zap.Float64("offset y", vs.OffsetY), zap.Float64("rotation", vs.Rotation))
	return session, nil
}

func runRender(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := envFromContext(ctx)
	log := env.Log.Named("render")

	dst := cmd.Args().Get(1)
	if len(dst) == 0 {
		return errors.New("no destination has been specified")
	}
	if cmd.Args().Len() > 2 {
		log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
	}

	background := env.Cfg.View.Background
	if cmd.IsSet("background") {
		background = cmd.String("background")
	}
	paint, err := config.ParseBackground(background)
	if err != nil {
		return err
	}
	host, err := newImageHost(dst, log)
	if err != nil {
		return err
	}
	host.jpegQuality = env.Cfg.View.JPEGQuality
	if paint.Kind == svgicon.PaintColor {
		host.background = paint.Color
	}

	session, err := openSession(env, cmd, host, log)
	if err != nil {
		return err
	}
	if err := session.Render(); err != nil {
		return fmt.Errorf("unable to render '%s': %w", cmd.Args().Get(0), err)
	}
	return nil
}

func runInfo(ctx context.Context, cmd *cli.Command) error {
	env := envFromContext(ctx)
	log := env.Log.Named("info")

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return errors.New("no input source has been specified")
	}
	opts, err := env.Cfg.Parse.ParseOptions()
	if err != nil {
		return err
	}
	icon, err := svgicon.ReadIcon(src, append(opts, svgicon.WithLogger(log))...)
	if err != nil {
		return fmt.Errorf("unable to load '%s': %w", src, err)
	}
	printInfo(cmd.Root().Writer, icon)
	return nil
}

func printInfo(out io.Writer, icon *svgicon.SceneGraph) {
	fmt.Fprintf(out, "size:      %g x %g\n", icon.DocumentSize.W, icon.DocumentSize.H)
	vb := icon.ViewBox
	fmt.Fprintf(out, "viewBox:   %g %g %g %g\n", vb.X, vb.Y, vb.W, vb.H)
	b := icon.Bounds()
	fmt.Fprintf(out, "bounds:    %g %g %g %g\n", b.X, b.Y, b.W, b.H)
	for _, title := range icon.Titles {
		fmt.Fprintf(out, "title:     %s\n", strings.TrimSpace(title))
	}
	for _, desc := range icon.Descriptions {
		fmt.Fprintf(out, "desc:      %s\n", strings.TrimSpace(desc))
	}
	fmt.Fprintf(out, "warnings:  %d\n", len(icon.Warnings))
	for _, w := range icon.Warnings {
		fmt.Fprintf(out, "  %v\n", w)
	}
}

func runMap(ctx context.Context, cmd *cli.Command) error {
	env := envFromContext(ctx)
	log := env.Log.Named("map")

	if cmd.Args().Len() < 2 {
		return errors.New("no point has been specified")
	}
	session, err := openSession(env, cmd, nil, log)
	if err != nil {
		return err
	}

	out := cmd.Root().Writer
	for _, arg := range cmd.Args().Slice()[1:] {
		p, err := parsePoint(arg)
		if err != nil {
			return err
		}
		if cmd.Bool("reverse") {
			q := session.DocumentToViewPoint(p)
			fmt.Fprintf(out, "%g,%g -> %g,%g\n", p.X, p.Y, q.X, q.Y)
			continue
		}
		q := session.ViewToDocumentPoint(p)
		hit := "-"
		if n := session.HitTest(p); n != nil {
			hit = n.Element
			if len(n.ID) > 0 {
				hit += "#" + n.ID
			}
		}
		fmt.Fprintf(out, "%g,%g -> %g,%g %s\n", p.X, p.Y, q.X, q.Y, hit)
	}
	return nil
}

func outputConfiguration(ctx context.Context, cmd *cli.Command) error {
	env := envFromContext(ctx)
	if cmd.Args().Len() > 1 {
		env.Log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}

	fname := cmd.Args().Get(0)

	var (
		err   error
		data  []byte
		state string
	)

	out := cmd.Root().Writer
	if len(fname) > 0 {
		f, err := os.Create(fname)
		if err != nil {
			return fmt.Errorf("unable to create destination file '%s': %w", fname, err)
		}
		defer f.Close()
		out = f
	}

	if cmd.Bool("default") {
		state = "default"
		data = config.Default()
	} else {
		state = "actual"
		if data, err = config.Dump(env.Cfg); err != nil {
			return fmt.Errorf("unable to get configuration: %w", err)
		}
	}

	if len(fname) == 0 {
		fname = "STDOUT"
	}
	env.Log.Debug("Outputing configuration", zap.String("state", state), zap.String("file", fname))

	if _, err = out.Write(data); err != nil {
		return fmt.Errorf("unable to write configuration: %w", err)
	}
	return nil
}
