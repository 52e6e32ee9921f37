// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func jsonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output raw JSON",
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Usage: "Pretty-print JSON output",
			Value: true,
		},
	}
}

func idArgument(name string) []cli.Argument {
	return []cli.Argument{&cli.StringArg{Name: name, UsageText: "<" + name + ">"}}
}

// setupCommand handles local setup: config file and database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "config",
				Usage: "Write a config file from the built-in template",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Overwrite an existing config file",
					},
				},
				Action: r.SetupConfig,
			},
			{
				Name:   "database",
				Usage:  "Initialize database and run migrations",
				Action: r.SetupDatabase,
			},
		},
	}
}

// authCommand handles sign in, registration and session management.
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage your SineWave session",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Sign in with username and password",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "username",
						Aliases:  []string{"u"},
						Usage:    "Account username",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "password",
						Aliases: []string{"p"},
						Usage:   "Account password",
						Sources: cli.EnvVars("SINEWAVE_PASSWORD"),
					},
				},
				Action: r.needs(r.AuthLogin),
			},
			{
				Name:  "register",
				Usage: "Create an account and sign in",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "firstname", Usage: "First name", Required: true},
					&cli.StringFlag{Name: "lastname", Usage: "Last name", Required: true},
					&cli.StringFlag{Name: "username", Aliases: []string{"u"}, Usage: "Username", Required: true},
					&cli.StringFlag{Name: "email", Usage: "Email address", Required: true},
					&cli.StringFlag{
						Name:    "password",
						Aliases: []string{"p"},
						Usage:   "Password",
						Sources: cli.EnvVars("SINEWAVE_PASSWORD"),
					},
				},
				Action: r.needs(r.AuthRegister),
			},
			{
				Name:   "logout",
				Usage:  "Sign out and forget the stored session",
				Action: r.needs(r.AuthLogout),
			},
			{
				Name:   "refresh",
				Usage:  "Renew the access token using the refresh cookie",
				Action: r.needs(r.AuthRefresh),
			},
			{
				Name:   "status",
				Usage:  "Show the stored session",
				Flags:  jsonFlags(),
				Action: r.needs(r.AuthStatus),
			},
		},
	}
}

// songsCommand handles song search, upload and playback.
func songsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "songs",
		Usage: "Browse, upload and play songs",
		Commands: []*cli.Command{
			{
				Name:      "search",
				Usage:     "Search songs by title",
				Arguments: []cli.Argument{&cli.StringArg{Name: "title"}},
				Flags:     jsonFlags(),
				Action:    r.needs(r.SongsSearch),
			},
			{
				Name:   "mine",
				Usage:  "List your uploaded songs",
				Flags:  jsonFlags(),
				Action: r.needs(r.SongsMine),
			},
			{
				Name:      "user",
				Usage:     "List songs uploaded by a user",
				Arguments: idArgument("user-id"),
				Flags:     jsonFlags(),
				Action:    r.needs(r.SongsByUser),
			},
			{
				Name:      "get",
				Usage:     "Show a song",
				Arguments: idArgument("id"),
				Flags:     jsonFlags(),
				Action:    r.needs(r.SongsGet),
			},
			{
				Name:      "upload",
				Usage:     "Upload an audio file to the media host",
				Arguments: []cli.Argument{&cli.StringArg{Name: "path"}},
				Flags:     jsonFlags(),
				Action:    r.needs(r.SongsUpload),
			},
			{
				Name:      "play",
				Usage:     "Download a song and open it in the default player",
				Arguments: idArgument("id"),
				Action:    r.needs(r.SongsPlay),
			},
			{
				Name:  "cached",
				Usage: "List songs cached by earlier listings (offline)",
				Flags: append(jsonFlags(), &cli.StringFlag{
					Name:  "title",
					Usage: "Filter by title substring",
				}),
				Action: r.SongsCached,
			},
		},
	}
}

// playlistsCommand handles playlist management and export.
func playlistsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "playlists",
		Aliases: []string{"pl"},
		Usage:   "Manage and export playlists",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List your playlists",
				Flags:  jsonFlags(),
				Action: r.needs(r.PlaylistsList),
			},
			{
				Name:      "create",
				Usage:     "Create a playlist",
				Arguments: []cli.Argument{&cli.StringArg{Name: "name"}},
				Flags: append(jsonFlags(), &cli.BoolFlag{
					Name:  "public",
					Usage: "Make the playlist public",
				}),
				Action: r.needs(r.PlaylistsCreate),
			},
			{
				Name:  "add",
				Usage: "Add a song to a playlist",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "playlist-id"},
					&cli.StringArg{Name: "song-id"},
				},
				Action: r.needs(r.PlaylistsAdd),
			},
			{
				Name:      "show",
				Usage:     "Show a playlist and its songs",
				Arguments: idArgument("id"),
				Flags:     jsonFlags(),
				Action:    r.needs(r.PlaylistsShow),
			},
			{
				Name:      "export",
				Usage:     "Export playlists to files",
				ArgsUsage: "[playlist-id...]",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "all",
						Usage: "Export every playlist you own",
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Export format: json, csv, markdown, txt (default from config)",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output directory (default: sinewave_export_{epoch})",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Concurrent workers, 1-10 (default from config)",
					},
					&cli.FloatFlag{
						Name:  "rate-limit",
						Usage: "Requests per second (default from config)",
					},
				},
				Action: r.needs(r.PlaylistsExport),
			},
		},
	}
}

// usersCommand handles profiles and follows.
func usersCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "users",
		Usage: "Profiles and follows",
		Commands: []*cli.Command{
			{
				Name:   "me",
				Usage:  "Show your profile",
				Flags:  jsonFlags(),
				Action: r.needs(r.UsersMe),
			},
			{
				Name:      "get",
				Usage:     "Show a user's profile",
				Arguments: idArgument("id"),
				Flags:     jsonFlags(),
				Action:    r.needs(r.UsersGet),
			},
			{
				Name:      "search",
				Usage:     "Search users by username",
				Arguments: []cli.Argument{&cli.StringArg{Name: "username"}},
				Flags:     jsonFlags(),
				Action:    r.needs(r.UsersSearch),
			},
			{
				Name:      "follow",
				Usage:     "Follow a user",
				Arguments: idArgument("id"),
				Action:    r.needs(r.UsersFollow),
			},
			{
				Name:      "unfollow",
				Usage:     "Unfollow a user",
				Arguments: idArgument("id"),
				Action:    r.needs(r.UsersUnfollow),
			},
			{
				Name:      "following",
				Usage:     "Check whether you follow a user",
				Arguments: idArgument("id"),
				Flags:     jsonFlags(),
				Action:    r.needs(r.UsersFollowing),
			},
			{
				Name:  "anonymize",
				Usage: "Anonymize your account and sign out",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "yes",
						Usage: "Confirm anonymization",
					},
				},
				Action: r.needs(r.UsersAnonymize),
			},
		},
	}
}

// adminCommand handles administrator-only operations.
func adminCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "admin",
		Usage: "Administrator operations",
		Commands: []*cli.Command{
			{
				Name:   "songs",
				Usage:  "List every song",
				Flags:  jsonFlags(),
				Action: r.needs(r.AdminSongs),
			},
			{
				Name:   "users",
				Usage:  "List every user",
				Flags:  jsonFlags(),
				Action: r.needs(r.AdminUsers),
			},
			{
				Name:      "delete-song",
				Usage:     "Delete a song",
				Arguments: idArgument("id"),
				Action:    r.needs(r.AdminDeleteSong),
			},
			{
				Name:      "delete-user",
				Usage:     "Delete a user",
				Arguments: idArgument("id"),
				Action:    r.needs(r.AdminDeleteUser),
			},
		},
	}
}

// apiCommand handles direct API calls and the library dump
func apiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Direct authenticated API calls",
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Direct GET, prints raw JSON",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.needs(r.APIGet),
			},
			{
				Name:  "post",
				Usage: "Direct POST with JSON body",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "data",
						Aliases:  []string{"d"},
						Usage:    "JSON body to send",
						Required: true,
					},
				},
				Action: r.needs(r.APIPost),
			},
			{
				Name:  "dump",
				Usage: "Dump your profile, songs and playlists",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
					&cli.BoolFlag{
						Name:  "save",
						Usage: "Save dump to api_dump.json",
					},
				},
				Action: r.needs(r.APIDump),
			},
		},
	}
}

// tuiCommand returns the top-level TUI command.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive terminal client",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "Where to write logs while the TUI owns the terminal",
				Value: "./tmp/sinewave-tui.log",
			},
		},
		Action: r.TUI,
	}
}
