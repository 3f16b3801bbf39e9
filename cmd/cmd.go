// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// serveCommand runs the HTTP API.
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Listen host (overrides server.host)",
			},
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Listen port (overrides server.port)",
			},
			&cli.BoolFlag{
				Name:  "no-seed",
				Usage: "Skip seeding the demo catalog",
			},
			&cli.BoolFlag{
				Name:  "open",
				Usage: "Open the song list in the default browser",
			},
		},
		Action: r.Serve,
	}
}

// setupCommand handles setup operations for the database and config file.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "database",
				Usage: "Initialize database and run migrations",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "seed",
						Usage: "Seed the demo catalog when the database is empty",
					},
					&cli.BoolFlag{
						Name:  "status",
						Usage: "Show migration status instead of migrating",
					},
					&cli.BoolFlag{
						Name:  "rollback",
						Usage: "Revert the most recent migration",
					},
					jsonFlag(),
				},
				Action: r.SetupDatabase,
			},
			{
				Name:   "config",
				Usage:  "Write a config file from the bundled template",
				Action: r.SetupConfig,
			},
		},
	}
}

// songsCommand handles catalog song operations.
func songsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "songs",
		Usage: "Catalog songs",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List songs in creation order",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "query",
						Aliases: []string{"q"},
						Usage:   "Only songs whose title, artist or album contains the query",
					},
					jsonFlag(),
				},
				Action: r.SongsList,
			},
			{
				Name:      "get",
				Usage:     "Show one song",
				ArgsUsage: "<song-id>",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags:  []cli.Flag{jsonFlag()},
				Action: r.SongsGet,
			},
			{
				Name:  "add",
				Usage: "Add a song to the catalog",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "title",
						Usage:    "Song title",
						Required: true,
					},
					&cli.IntFlag{
						Name:     "artist-id",
						Usage:    "Owning artist id",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "artist",
						Usage: "Display artist (defaults to the owning artist's name)",
					},
					&cli.StringFlag{
						Name:  "album",
						Usage: "Album name",
					},
					&cli.IntFlag{
						Name:     "duration",
						Usage:    "Length in seconds",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "url",
						Usage:    "Audio URL",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "image",
						Usage: "Cover image URL",
					},
					jsonFlag(),
				},
				Action: r.SongsAdd,
			},
			{
				Name:      "search",
				Usage:     "Search songs and artists",
				ArgsUsage: "<query>",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "query"},
				},
				Flags:  []cli.Flag{jsonFlag()},
				Action: r.SongsSearch,
			},
		},
	}
}

// artistsCommand handles artist operations.
func artistsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "artists",
		Usage: "Catalog artists",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List artists",
				Flags:  []cli.Flag{jsonFlag()},
				Action: r.ArtistsList,
			},
			{
				Name:      "get",
				Usage:     "Show one artist",
				ArgsUsage: "<artist-id>",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags:  []cli.Flag{jsonFlag()},
				Action: r.ArtistsGet,
			},
			{
				Name:      "songs",
				Usage:     "List an artist's songs",
				ArgsUsage: "<artist-id>",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags:  []cli.Flag{jsonFlag()},
				Action: r.ArtistsSongs,
			},
			{
				Name:  "add",
				Usage: "Add an artist",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "name",
						Usage:    "Artist name",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "image",
						Usage: "Artist image URL",
					},
					jsonFlag(),
				},
				Action: r.ArtistsAdd,
			},
		},
	}
}

// playlistsCommand handles playlist operations for the configured user.
func playlistsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "playlists",
		Aliases: []string{"pl"},
		Usage:   "Playlists of the configured user",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List playlists",
				Flags:  []cli.Flag{jsonFlag()},
				Action: r.PlaylistsList,
			},
			{
				Name:      "get",
				Usage:     "Show a playlist and its songs",
				ArgsUsage: "<playlist-id>",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags:  []cli.Flag{jsonFlag()},
				Action: r.PlaylistsGet,
			},
			{
				Name:      "create",
				Usage:     "Create a playlist",
				ArgsUsage: "<name>",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "name"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "image",
						Usage: "Cover image URL",
					},
					&cli.IntFlag{
						Name:  "song",
						Usage: "Song id to start the playlist with",
					},
					jsonFlag(),
				},
				Action: r.PlaylistsCreate,
			},
			{
				Name:      "delete",
				Usage:     "Delete a playlist",
				ArgsUsage: "<playlist-id>",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.PlaylistsDelete,
			},
			{
				Name:      "add",
				Usage:     "Add a song to a playlist",
				ArgsUsage: "<playlist-id> <song-id>",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "playlist"},
					&cli.StringArg{Name: "song"},
				},
				Action: r.PlaylistsAdd,
			},
			{
				Name:      "remove",
				Usage:     "Remove a song from a playlist",
				ArgsUsage: "<playlist-id> <song-id>",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "playlist"},
					&cli.StringArg{Name: "song"},
				},
				Action: r.PlaylistsRemove,
			},
			{
				Name:      "reorder",
				Usage:     "Move the given songs to the front, in order",
				ArgsUsage: "<playlist-id> <song-id>...",
				Flags:     []cli.Flag{jsonFlag()},
				Action:    r.PlaylistsReorder,
			},
		},
	}
}

// likedCommand handles the configured user's liked songs.
func likedCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "liked",
		Usage: "Liked songs of the configured user",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List liked songs",
				Flags:  []cli.Flag{jsonFlag()},
				Action: r.LikedList,
			},
			{
				Name:      "like",
				Usage:     "Like a song",
				ArgsUsage: "<song-id>",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.LikedLike,
			},
			{
				Name:      "unlike",
				Usage:     "Unlike a song",
				ArgsUsage: "<song-id>",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.LikedUnlike,
			},
			{
				Name:      "toggle",
				Usage:     "Flip the like on a song",
				ArgsUsage: "<song-id>",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags:  []cli.Flag{jsonFlag()},
				Action: r.LikedToggle,
			},
		},
	}
}

// exportCommand writes playlists to disk.
func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export playlists and liked songs",
		Commands: []*cli.Command{
			{
				Name:      "playlist",
				Usage:     "Export one playlist",
				ArgsUsage: "<playlist-id>",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags:  []cli.Flag{formatFlag(), outputFlag(), jsonFlag()},
				Action: r.ExportPlaylist,
			},
			{
				Name:   "liked",
				Usage:  "Export the liked songs",
				Flags:  []cli.Flag{formatFlag(), outputFlag(), jsonFlag()},
				Action: r.ExportLiked,
			},
			{
				Name:  "all",
				Usage: "Export every playlist and the liked songs with a manifest",
				Flags: []cli.Flag{
					formatFlag(),
					outputFlag(),
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Concurrent writers (overrides export.num_workers)",
					},
					&cli.FloatFlag{
						Name:  "rate",
						Usage: "Playlist fetches per second (overrides export.rate_limit)",
					},
					&cli.BoolFlag{
						Name:  "no-liked",
						Usage: "Skip the liked songs",
					},
					jsonFlag(),
				},
				Action: r.ExportAll,
			},
		},
	}
}

// playCommand returns the terminal player command.
func playCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "play",
		Aliases: []string{"player", "ui"},
		Usage:   "Launch the terminal player",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "remote",
				Usage: "Drive a running tempo server at this base URL instead of the local database",
			},
		},
		Action: r.Play,
	}
}

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Usage:   "Export format: csv, markdown, txt or json (overrides export.format)",
	}
}

func outputFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "Output directory (overrides export.output_dir)",
	}
}
