package cmd

import (
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/abhisek/skillpath/internal/api"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the read-only JSON API and Prometheus metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDeps(cmd, false)
		if err != nil {
			return err
		}
		defer d.Close()

		if d.Config.Log.Level != "debug" {
			gin.SetMode(gin.ReleaseMode)
		}
		return api.NewServer(d.Store, d.Gaps, d.Logger).Run(cmd.Context(), d.Config.Server.Addr)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (default :8080)")
	_ = v.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))
}
