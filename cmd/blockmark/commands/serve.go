package commands

import (
	"git.home.luguber.info/inful/blockmark/internal/server/httpserver"
)

// ServeCmd implements the 'serve' command.
type ServeCmd struct {
	Addr string `short:"a" help:"Listen address (overrides server.addr)"`
}

func (s *ServeCmd) Run(g *Global, root *CLI) error {
	rt, err := root.setup(g)
	if err != nil {
		return err
	}
	addr := rt.cfg.Server.Addr
	if s.Addr != "" {
		addr = s.Addr
	}
	srv := httpserver.New(rt.converter, httpserver.Options{
		Addr:         addr,
		ReadTimeout:  rt.cfg.Server.ReadTimeout,
		MaxBodyBytes: rt.cfg.Server.MaxBodyBytes,
		RenderFormat: string(rt.cfg.Render.Format),
		RenderWidth:  rt.cfg.Render.Width,
		Registry:     rt.registry,
		Recorder:     rt.recorder,
		Logger:       rt.logger,
	})
	return srv.Run(g.Ctx)
}
