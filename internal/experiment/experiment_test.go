package experiment_test

import (
	"context"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/twosprings/internal/config"
	"github.com/san-kum/twosprings/internal/dynamo"
	"github.com/san-kum/twosprings/internal/experiment"
	"github.com/san-kum/twosprings/internal/sim"
)

var _ = Describe("Experiment", func() {
	var (
		dir string
		cfg *config.Config
	)

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
		cfg = config.DefaultConfig()
		cfg.Output.Data = filepath.Join(dir, config.DefaultDataFile)
		cfg.Output.Image = filepath.Join(dir, config.DefaultImageFile)
	})

	Context("with the default scenario", func() {
		var report *experiment.Report

		BeforeEach(func() {
			var err error
			report, err = experiment.New(cfg).Run(context.Background())
			Expect(err).NotTo(HaveOccurred())
		})

		It("writes 250 records of five numeric fields", func() {
			data, err := os.ReadFile(cfg.Output.Data)
			Expect(err).NotTo(HaveOccurred())

			lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
			Expect(lines).To(HaveLen(250))

			for _, line := range lines {
				fields := strings.Fields(line)
				Expect(fields).To(HaveLen(5))
				for _, f := range fields {
					_, err := strconv.ParseFloat(f, 64)
					Expect(err).NotTo(HaveOccurred())
				}
			}

			Expect(strings.Fields(lines[0])[0]).To(Equal("0.0"))
			Expect(strings.Fields(lines[249])[0]).To(Equal("10.0"))
		})

		It("starts from the configured initial state", func() {
			data, err := os.ReadFile(cfg.Output.Data)
			Expect(err).NotTo(HaveOccurred())

			first := strings.Fields(strings.SplitN(string(data), "\n", 2)[0])
			Expect(first).To(Equal([]string{"0.0", "0.5", "0.0", "2.25", "0.0"}))
		})

		It("renders a PNG at 50 dpi", func() {
			f, err := os.Open(cfg.Output.Image)
			Expect(err).NotTo(HaveOccurred())
			defer f.Close()

			img, err := png.Decode(f)
			Expect(err).NotTo(HaveOccurred())
			Expect(img.Bounds().Dx()).To(Equal(300))
			Expect(img.Bounds().Dy()).To(Equal(225))
		})

		It("reports the run", func() {
			Expect(report.Samples).To(Equal(250))
			Expect(report.DataPath).To(Equal(cfg.Output.Data))
			Expect(report.Metrics).To(HaveKey("energy_loss"))
			Expect(report.Metrics["energy_loss"]).To(BeNumerically(">", 0))
		})

		It("renders again from the file alone", func() {
			Expect(os.Remove(cfg.Output.Image)).To(Succeed())

			traj, err := experiment.New(cfg).Render()
			Expect(err).NotTo(HaveOccurred())
			Expect(traj.Len()).To(Equal(250))
			Expect(cfg.Output.Image).To(BeARegularFile())
		})
	})

	Context("with invalid input", func() {
		It("fails fast on a one-point grid and writes nothing", func() {
			cfg.Solver.NumPoints = 1

			_, err := experiment.New(cfg).Run(context.Background())
			Expect(errors.Is(err, sim.ErrGridTooSmall)).To(BeTrue())
			Expect(cfg.Output.Data).NotTo(BeAnExistingFile())
			Expect(cfg.Output.Image).NotTo(BeAnExistingFile())
		})

		It("rejects a zero mass", func() {
			cfg.Params.M1 = 0

			_, err := experiment.New(cfg).Simulate(context.Background())
			Expect(errors.Is(err, dynamo.ErrParameterBounds)).To(BeTrue())
			Expect(cfg.Output.Data).NotTo(BeAnExistingFile())
		})

		It("keeps an existing data file when integration fails", func() {
			Expect(os.WriteFile(cfg.Output.Data, []byte("previous\n"), 0644)).To(Succeed())

			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			_, err := experiment.New(cfg).Simulate(ctx)
			Expect(errors.Is(err, context.Canceled)).To(BeTrue())
			Expect(os.ReadFile(cfg.Output.Data)).To(Equal([]byte("previous\n")))
		})

		It("fails to render a missing data file", func() {
			_, err := experiment.New(cfg).Render()
			Expect(err).To(HaveOccurred())
		})
	})
})
