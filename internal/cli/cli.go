// Package cli implements the command-line interface for socstat: a
// tool that converts a RINEX observation file to an SOC container and
// reports summary statistics about either format, grounded on
// eunmann-s3-inv-db's internal/cli command-dispatch shape.
package cli

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/entrope/srnx/compress"
	"github.com/entrope/srnx/epoch"
	"github.com/entrope/srnx/errs"
	"github.com/entrope/srnx/internal/digest"
	"github.com/entrope/srnx/internal/log"
	"github.com/entrope/srnx/rinex"
	"github.com/entrope/srnx/soc"
	"github.com/entrope/srnx/stream"
)

// compressionKind maps a --compress flag value to the codec it selects.
func compressionKind(name string) (compress.Kind, error) {
	switch name {
	case "", "none":
		return compress.KindNone, nil
	case "zstd":
		return compress.KindZstd, nil
	case "lz4":
		return compress.KindLZ4, nil
	default:
		return compress.KindNone, fmt.Errorf("unknown --compress value: %s", name)
	}
}

// Run executes the CLI with the given arguments (os.Args[1:]).
func Run(args []string) error {
	if len(args) == 0 {
		return errors.New("usage: socstat <command> [options]\ncommands: encode, stat")
	}

	switch args[0] {
	case "encode":
		return runEncode(args[1:])
	case "stat":
		return runStat(args[1:])
	default:
		return fmt.Errorf("unknown command: %s", args[0])
	}
}

func runEncode(args []string) error {
	fs := flag.NewFlagSet("encode", flag.ContinueOnError)
	out := fs.String("out", "", "output SOC container path")
	debug := fs.Bool("debug", false, "enable debug logging")
	human := fs.Bool("human", false, "human-readable log output")
	compressName := fs.String("compress", "none", "codec for RHDR/EVTF chunk text: none, zstd, lz4")
	if err := fs.Parse(args); err != nil {
		return err
	}
	log.Init(*debug, *human)

	rest := fs.Args()
	if len(rest) != 1 {
		return errors.New("usage: socstat encode [options] <rinex-obs-file>")
	}
	if *out == "" {
		return errors.New("--out is required")
	}
	codec, err := compressionKind(*compressName)
	if err != nil {
		return err
	}

	logger := log.L()
	logger.Info().Str("input", rest[0]).Msg("opening RINEX observation file")

	s, err := stream.Open(rest[0])
	if err != nil {
		return fmt.Errorf("open %s: %w", rest[0], err)
	}
	defer s.Destroy()

	header, err := rinex.ReadHeader(s)
	if err != nil {
		return fmt.Errorf("read header: %w", err)
	}

	rhdr := soc.RHDRPayload{
		RinexMajor: header.Major,
		RinexMinor: header.Minor,
		ObsTypes:   header.ObsTypes,
		RawHeader:  header.RawText(),
	}
	for sys := range header.ObsTypes {
		rhdr.Systems = append(rhdr.Systems, sys)
	}

	w := soc.NewWriter(1, 0, digest.CRC32C, digest.CRC32C, rhdr)
	w.SetCompression(codec)

	rd := rinex.NewReader(s, header)
	nRecords, nObs, nEvents := 0, 0, 0
	for {
		rec, err := rd.Read()
		if err != nil {
			if errors.Is(err, errs.ErrEof) {
				break
			}
			return fmt.Errorf("read record at line %d: %w", rd.ErrLine(), err)
		}
		nRecords++

		epochIdx := w.AddEpoch(rec.Epoch)
		if len(rec.EventLines) > 0 {
			w.AddEvent(epochIdx, rec.Epoch.Flag, rec.EventLines)
			nEvents++
			continue
		}

		valIdx := 0
		presPos := 0
		for _, sat := range rec.Satellites {
			sys := sat.System()
			nObsForSys := header.NObs(sys)
			presBytes := epoch.PresenceBits(nObsForSys)
			presence := rec.Presence[presPos+2 : presPos+2+presBytes]
			presPos += 2 + presBytes

			for i := 0; i < nObsForSys; i++ {
				if !epoch.PresenceGet(presence, i) {
					continue
				}
				code := header.ObsTypes[sys][i]
				w.AddObservation(sat, code, epochIdx, rec.Values[valIdx], rec.LLI[valIdx], rec.SSI[valIdx])
				valIdx++
				nObs++
			}
		}
	}

	data, err := w.Finish()
	if err != nil {
		return fmt.Errorf("finish container: %w", err)
	}

	if err := os.WriteFile(*out, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", *out, err)
	}

	logger.Info().
		Int("records", nRecords).
		Int("observations", nObs).
		Int("events", nEvents).
		Int("bytes", len(data)).
		Str("output", *out).
		Msg("wrote SOC container")
	return nil
}

func runStat(args []string) error {
	fs := flag.NewFlagSet("stat", flag.ContinueOnError)
	debug := fs.Bool("debug", false, "enable debug logging")
	human := fs.Bool("human", false, "human-readable log output")
	if err := fs.Parse(args); err != nil {
		return err
	}
	log.Init(*debug, *human)

	rest := fs.Args()
	if len(rest) != 1 {
		return errors.New("usage: socstat stat [options] <soc-file>")
	}

	data, err := os.ReadFile(rest[0])
	if err != nil {
		return fmt.Errorf("read %s: %w", rest[0], err)
	}

	r, err := soc.NewReader(data)
	if err != nil {
		return fmt.Errorf("open container: %w", err)
	}

	rhdr := r.RHDR()
	fmt.Printf("RINEX %d.%02d, %d epochs, %d satellites\n",
		rhdr.RinexMajor, rhdr.RinexMinor, len(r.Epochs()), len(r.Satellites()))

	for _, sat := range r.Satellites() {
		sys := sat.System()
		for _, code := range rhdr.ObsTypes[sys] {
			obs, err := r.OpenObs(sat, code)
			if err != nil {
				continue
			}
			n := 0
			for {
				if _, err := obs.NextValue(); err != nil {
					break
				}
				n++
			}
			fmt.Printf("  %s %s: %d values\n", sat.String(), code.String(), n)
		}
	}

	for {
		ev, err := r.NextEvent()
		if err != nil {
			break
		}
		fmt.Printf("  event at epoch %d, flag %c, %d lines\n", ev.EpochIndex, ev.Flag, len(ev.Lines))
	}
	return nil
}
