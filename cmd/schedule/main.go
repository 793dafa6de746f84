package main

import (
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli"

	"github.com/Guilhem-Bonnet/study-schedule/internal/buildinfo"
	"github.com/Guilhem-Bonnet/study-schedule/internal/config"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Erreur:", err)
		os.Exit(1)
	}
}

var (
	exportFlags = []cli.Flag{
		cli.StringFlag{
			Name:  "out, o",
			Usage: "fichier de sortie (ex: semaine.html)",
		},
		cli.StringFlag{
			Name:  "format, f",
			Usage: "html ou json (défaut: déduit de l'extension)",
		},
	}
	selectFlags = []cli.Flag{
		cli.StringFlag{
			Name:  "session",
			Usage: "identifiant du widget monté",
		},
		cli.IntFlag{
			Name:  "day, d",
			Usage: "index du jour (0 = dimanche)",
			Value: -1,
		},
		cli.StringFlag{
			Name:  "label",
			Usage: "libellé du jour (ex: QUA, wed)",
		},
	}
	watchFlags = []cli.Flag{
		cli.IntFlag{
			Name:  "seconds, s",
			Usage: "durée d'observation",
			Value: 10,
		},
	}
)

func newApp() *cli.App {
	def := config.Default()
	info := buildinfo.Current()

	app := cli.NewApp()
	app.Name = "schedule"
	app.HelpName = "schedule"
	app.Usage = "client du widget cronograma de estudos"
	app.UsageText = "schedule [--server URL] <command> [arguments...]"
	app.Version = info.Version
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "server",
			Usage: "URL du serveur",
			Value: def.ServerURL,
		},
		cli.StringFlag{
			Name:  "locale, l",
			Usage: "locale des libellés (ex: pt-BR, en-US)",
			Value: def.Locale,
		},
		cli.DurationFlag{
			Name:  "timeout",
			Usage: "timeout HTTP",
			Value: 10 * time.Second,
		},
	}
	app.Commands = []cli.Command{
		{Name: "health", Usage: "état du serveur", Action: getCommand("/api/v1/health")},
		{Name: "version", Usage: "version du serveur", Action: getCommand("/api/v1/version")},
		{Name: "week", Aliases: []string{"w"}, Usage: "tableau de la semaine", Action: getCommand("/api/v1/schedule")},
		{Name: "legend", Usage: "légende des catégories", Action: getCommand("/api/v1/legend")},
		{Name: "today", Aliases: []string{"t"}, Usage: "jour actif selon l'horloge du serveur", Action: getCommand("/api/v1/today")},
		{Name: "settings", Usage: "paramètres du widget", Action: getCommand("/api/v1/settings")},
		{
			Name:   "select",
			Usage:  "sélectionne un jour dans un widget monté",
			Flags:  selectFlags,
			Action: selectAction,
		},
		{
			Name:   "export",
			Usage:  "écrit un instantané du widget (HTML ou JSON)",
			Flags:  exportFlags,
			Action: exportAction,
		},
		{
			Name:   "watch",
			Usage:  "monte un widget et affiche ses ticks",
			Flags:  watchFlags,
			Action: watchAction,
		},
	}
	return app
}
