package main

import (
	"os"

	"github.com/urfave/cli/v2"

	appRepos "github.com/yigit/devcamper/internal/app/repositories"
	"github.com/yigit/devcamper/internal/bootstrap"
	"github.com/yigit/devcamper/internal/pkg/logger"
	"github.com/yigit/devcamper/internal/seed"
)

const (
	dirFlagName       = "dir"
	noGeocodeFlagName = "no-geocode"
	migrateFlagName   = "migrate"
)

func main() {
	app := &cli.App{
		Name:  "seeder",
		Usage: "load or clear DevCamper fixture data",
		Commands: []*cli.Command{
			importCommand(),
			destroyCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Error().Err(err).Msg("Seeder failed")
		os.Exit(1)
	}
}

func importCommand() *cli.Command {
	return &cli.Command{
		Name:    "import",
		Aliases: []string{"i"},
		Usage:   "import users, bootcamps and courses from the data directory",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  dirFlagName,
				Usage: "directory holding users.json, bootcamps.json and courses.json (defaults to the configured seed directory)",
			},
			&cli.BoolFlag{
				Name:  noGeocodeFlagName,
				Usage: "do not geocode bootcamps that have no location",
			},
			&cli.BoolFlag{
				Name:  migrateFlagName,
				Usage: "apply migrations before importing",
			},
		},
		Action: func(c *cli.Context) error {
			cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger()
			if err != nil {
				return err
			}

			connect := bootstrap.ConnectDatabase
			if c.Bool(migrateFlagName) {
				connect = bootstrap.SetupDatabase
			}
			pool, err := connect(cfg, lgr)
			if err != nil {
				return err
			}
			defer pool.Close()

			dir := c.String(dirFlagName)
			if dir == "" {
				dir = cfg.Seed.DataDir
			}

			geo := bootstrap.NewGeocoder(cfg, lgr)
			if c.Bool(noGeocodeFlagName) {
				geo = nil
			}

			_, err = seed.ImportData(c.Context, seed.NewStores(appRepos.NewRepositories(pool)), dir, geo, lgr)
			return err
		},
	}
}

func destroyCommand() *cli.Command {
	return &cli.Command{
		Name:    "destroy",
		Aliases: []string{"d"},
		Usage:   "delete every course, bootcamp and user",
		Action: func(c *cli.Context) error {
			cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger()
			if err != nil {
				return err
			}

			pool, err := bootstrap.ConnectDatabase(cfg, lgr)
			if err != nil {
				return err
			}
			defer pool.Close()

			return seed.DestroyData(c.Context, seed.NewStores(appRepos.NewRepositories(pool)), lgr)
		},
	}
}
