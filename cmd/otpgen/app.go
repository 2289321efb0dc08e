// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Copyright (c) 2023-2024 UnderNET

package main

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/undernetirc/otpgen/internal/auth/oath"
	"github.com/undernetirc/otpgen/internal/auth/oath/base32"
	"github.com/undernetirc/otpgen/internal/auth/oath/hotp"
	"github.com/undernetirc/otpgen/internal/auth/oath/totp"
	"github.com/undernetirc/otpgen/internal/config"
	"github.com/undernetirc/otpgen/internal/helper"
	"github.com/urfave/cli/v2"
)

type otpgen struct {
	stdout io.Writer
	stderr io.Writer
	now    func() time.Time
	logger *slog.Logger
}

var errInvalidCode = errors.New("code is not valid")

func otpFlags(extra ...cli.Flag) []cli.Flag {
	return append([]cli.Flag{
		&cli.StringFlag{
			Name:     "secret",
			Aliases:  []string{"s"},
			Usage:    "base32 encoded shared secret",
			EnvVars:  []string{"OTPGEN_SECRET"},
			Required: true,
		},
		&cli.StringFlag{
			Name:    "algorithm",
			Aliases: []string{"a"},
			Usage:   "HMAC algorithm (SHA1, SHA256, SHA512, SHA3-256, SHA3-512), defaults to otp.algorithm",
		},
		&cli.IntFlag{
			Name:    "digits",
			Aliases: []string{"d"},
			Usage:   "code length between 6 and 10, defaults to otp.digits",
		},
	}, extra...)
}

func newApp(stdout, stderr io.Writer, now func() time.Time) *cli.App {
	o := &otpgen{stdout: stdout, stderr: stderr, now: now}

	version := Version
	if BuildCommit != "" {
		version = fmt.Sprintf("%s %s %s", Version, BuildCommit, BuildDate)
	}

	return &cli.App{
		Name:      "otpgen",
		Version:   version,
		Usage:     "HOTP/TOTP one-time password generator",
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Usage:   "path to configuration file",
				EnvVars: []string{"OTPGEN_CONFIG"},
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "debug, info, warn or error",
			},
			&cli.StringFlag{
				Name:  "log-format",
				Usage: "text or json",
			},
		},
		Before: o.before,
		Commands: []*cli.Command{
			{
				Name:  "hotp",
				Usage: "generate a counter based code",
				Flags: otpFlags(
					&cli.Uint64Flag{
						Name:     "counter",
						Aliases:  []string{"c"},
						Usage:    "moving factor",
						Required: true,
					},
				),
				Action: o.hotpAction,
			},
			{
				Name:  "totp",
				Usage: "generate or verify a time based code",
				Flags: otpFlags(
					&cli.Uint64Flag{
						Name:  "period",
						Usage: "time step in seconds, defaults to otp.period",
					},
					&cli.Int64Flag{
						Name:  "start",
						Usage: "Unix time T0 counting starts from, defaults to otp.start_time",
					},
					&cli.Int64Flag{
						Name:  "time",
						Usage: "Unix time to generate the code for, defaults to now",
					},
					&cli.StringFlag{
						Name:  "verify",
						Usage: "check this code instead of printing one",
					},
					&cli.UintFlag{
						Name:  "skew",
						Usage: "time steps accepted either side when verifying, defaults to otp.skew",
					},
				),
				Action: o.totpAction,
			},
			{
				Name:      "encode",
				Usage:     "base32 encode text",
				ArgsUsage: "<text>",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "pad",
						Usage: "append '=' padding",
					},
				},
				Action: o.encodeAction,
			},
			{
				Name:      "decode",
				Usage:     "base32 decode to hex",
				ArgsUsage: "<base32>",
				Action:    o.decodeAction,
			},
			{
				Name:   "serve",
				Usage:  "run the HTTP API",
				Flags:  serveFlags(),
				Action: o.serveAction,
			},
		},
	}
}

func (o *otpgen) before(c *cli.Context) error {
	if err := config.InitConfig(c.String("config")); err != nil {
		return err
	}
	if c.IsSet("log-level") {
		config.LogLevel.Set(c.String("log-level"))
	}
	if c.IsSet("log-format") {
		config.LogFormat.Set(c.String("log-format"))
	}

	level, err := helper.ParseLogLevel(config.LogLevel.GetString())
	if err != nil {
		return err
	}
	logger, err := helper.NewLogger(o.stderr, level, config.LogFormat.GetString())
	if err != nil {
		return err
	}

	o.logger = logger
	slog.SetDefault(logger)
	return nil
}

func (o *otpgen) newConfig(c *cli.Context) (oath.Config, error) {
	algorithm := config.OTPAlgorithm.GetString()
	if c.IsSet("algorithm") {
		algorithm = c.String("algorithm")
	}
	digits := config.OTPDigits.GetInt()
	if c.IsSet("digits") {
		digits = c.Int("digits")
	}

	return oath.NewConfig(c.String("secret"), oath.WithAlgorithm(algorithm), oath.WithDigits(digits))
}

func (o *otpgen) hotpAction(c *cli.Context) error {
	cfg, err := o.newConfig(c)
	if err != nil {
		return err
	}

	generator := hotp.New(cfg, c.Uint64("counter"))
	code, err := generator.Generate()
	if err != nil {
		return err
	}

	o.logger.Debug("Generated HOTP code", "algorithm", cfg.Algorithm(), "counter", generator.Counter())
	_, err = fmt.Fprintln(o.stdout, code)
	return err
}

func (o *otpgen) totpAction(c *cli.Context) error {
	cfg, err := o.newConfig(c)
	if err != nil {
		return err
	}

	period := config.OTPPeriod.GetUint64()
	if c.IsSet("period") {
		period = c.Uint64("period")
	}
	start := config.OTPStartTime.GetInt64()
	if c.IsSet("start") {
		start = c.Int64("start")
	}
	now := o.now().Unix()
	if c.IsSet("time") {
		now = c.Int64("time")
	}

	generator, err := totp.New(cfg,
		totp.WithTimePeriod(period),
		totp.WithStartTime(start),
		totp.WithCurrentTime(now),
	)
	if err != nil {
		return err
	}
	o.logger.Debug("TOTP state", "algorithm", cfg.Algorithm(), "state", generator.String())

	if c.IsSet("verify") {
		skew := config.OTPSkew.GetUint8()
		if c.IsSet("skew") {
			if c.Uint("skew") > 255 {
				return fmt.Errorf("skew must be at most 255")
			}
			skew = uint8(c.Uint("skew")) // nolint:gosec // bounded above
		}
		if !generator.ValidateCustom(c.String("verify"), time.Unix(now, 0), skew) {
			fmt.Fprintln(o.stdout, "invalid")
			return errInvalidCode
		}
		_, err = fmt.Fprintln(o.stdout, "valid")
		return err
	}

	code, err := generator.Generate()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(o.stdout, code)
	return err
}

func (o *otpgen) encodeAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("encode expects exactly one argument")
	}

	_, err := fmt.Fprintln(o.stdout, base32.Encode([]byte(c.Args().First()), c.Bool("pad")))
	return err
}

func (o *otpgen) decodeAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("decode expects exactly one argument")
	}

	data, err := base32.Decode(c.Args().First())
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(o.stdout, hex.EncodeToString(data))
	return err
}
