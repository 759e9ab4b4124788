package scenario

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kelswick/monsim/internal/econ"
)

func quietParams() econ.Params {
	p := econ.Default()
	p.NoiseStdDev = 0
	return p
}

var _ = Describe("Crash", func() {
	var res *Result

	BeforeEach(func() {
		var err error
		res, err = Run(context.Background(), NewCrash(), quietParams())
		Expect(err).ToNot(HaveOccurred())
	})

	It("should run the full 150 epochs", func() {
		Expect(res.Trajectory).To(HaveLen(150))
	})

	It("should depress the measured velocity at the shock epoch", func() {
		Expect(res.Trajectory[50].Velocity).To(BeNumerically("<", 4.8))
		Expect(res.Trajectory[51].Stimulus).To(BeTrue())
	})

	It("should hold the stimulus regime after the first epoch", func() {
		Expect(res.Trajectory[0].Stimulus).To(BeFalse())
		Expect(res.Trajectory.StimulusEpochs()).To(Equal(149))
	})

	It("should keep the supply positive throughout", func() {
		for _, m := range res.Trajectory.Supplies() {
			Expect(m).To(BeNumerically(">", 0.0))
		}
	})

	It("should bottom out at the velocity floor without recovering", func() {
		Expect(res.Trajectory.MinVelocity()).To(Equal(econ.DefaultVelocityFloor))
		Expect(res.Passed()).To(BeFalse())
		Expect(res.Verdict).To(Equal("stuck in stagnation"))
	})

	It("should collect the standard metrics", func() {
		Expect(res.Metrics).To(HaveKey("mean_energy"))
		Expect(res.Metrics["stimulus_occupancy"]).To(BeNumerically("~", 149.0/150.0, 1e-12))
	})
})

var _ = Describe("Bubble", func() {
	var res *Result

	BeforeEach(func() {
		var err error
		res, err = Run(context.Background(), NewBubble(), quietParams())
		Expect(err).ToNot(HaveOccurred())
	})

	It("should trigger demurrage only at the shock epoch", func() {
		Expect(res.Trajectory[50].Demurrage).To(BeTrue())
		Expect(res.Trajectory.DemurrageEpochs()).To(Equal(1))
	})

	It("should contract the supply while overheated", func() {
		Expect(res.Trajectory[50].Supply).To(BeNumerically("<", res.Trajectory[49].Supply))
	})

	It("should end below the cooling limit", func() {
		Expect(res.Trajectory.Final().Velocity).To(BeNumerically("<", 9.0))
		Expect(res.Passed()).To(BeTrue())
		Expect(res.Verdict).To(Equal("cooled effectively"))
	})
})

var _ = Describe("Sybil", func() {
	var res *Result

	BeforeEach(func() {
		var err error
		res, err = Run(context.Background(), NewSybil(DefaultSybilConfig()), quietParams())
		Expect(err).ToNot(HaveOccurred())
	})

	It("should start the economy in forced stagnation", func() {
		Expect(res.Params.InitialVelocity).To(Equal(2.0))
		Expect(res.Trajectory.StimulusEpochs()).To(Equal(100))
	})

	It("should price the identity flood above its captured mint", func() {
		Expect(res.Attack).ToNot(BeNil())
		Expect(res.Attack.Cost).To(BeNumerically("==", 11000.0))
		Expect(res.Attack.Gain).To(BeNumerically("==", 5000.0))
		Expect(res.Attack.ROI).To(BeNumerically("~", 0.4545, 1e-4))
	})

	It("should judge the attack unviable", func() {
		Expect(res.Attack.Viable).To(BeFalse())
		Expect(res.Passed()).To(BeTrue())
		Expect(res.Verdict).To(Equal("attack unviable"))
	})
})
