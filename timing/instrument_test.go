package timing

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	gomock "go.uber.org/mock/gomock"
)

var _ = Describe("Instrument", func() {
	var (
		mockCtrl *gomock.Controller
		clock    *MockClock
		emitter  *MockEmitter
		t0       time.Time
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		clock = NewMockClock(mockCtrl)
		emitter = NewMockEmitter(mockCtrl)
		t0 = time.Date(2024, 5, 14, 10, 0, 0, 0, time.UTC)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should render the default message", func() {
		clock.EXPECT().Now().Return(t0)
		clock.EXPECT().Now().Return(t0.Add(10 * time.Millisecond))

		var got Record
		emitter.EXPECT().Emit(gomock.Any()).Do(func(rec Record) {
			got = rec
		})

		span := MakeBuilder().
			WithClock(clock).
			WithEmitter(emitter).
			Build("main").
			Start()
		span.End()

		Expect(got.Message).To(Equal("fn:main cost 10ms"))
		Expect(got.Fn).To(Equal("main"))
		Expect(got.Value).To(Equal(int64(10)))
		Expect(got.Elapsed).To(Equal(10 * time.Millisecond))
		Expect(got.ID).NotTo(BeEmpty())
	})

	It("should scale to the configured unit, truncating", func() {
		clock.EXPECT().Now().Return(t0)
		clock.EXPECT().Now().Return(t0.Add(1999 * time.Microsecond))

		var got Record
		emitter.EXPECT().Emit(gomock.Any()).Do(func(rec Record) {
			got = rec
		})

		MakeBuilder().
			WithClock(clock).
			WithEmitter(emitter).
			Build("scale").
			Start().
			End()

		Expect(got.Message).To(Equal("fn:scale cost 1ms"))
		Expect(got.Value).To(Equal(int64(1)))
	})

	It("should render a custom format", func() {
		clock.EXPECT().Now().Return(t0)
		clock.EXPECT().Now().Return(t0.Add(3 * time.Second))

		var got Record
		emitter.EXPECT().Emit(gomock.Any()).Do(func(rec Record) {
			got = rec
		})

		MakeBuilder().
			WithClock(clock).
			WithUnit(Seconds).
			WithFormat("{fn} finished after {}{unit}").
			WithEmitter(emitter).
			Build("job").
			Start().
			End()

		Expect(got.Message).To(Equal("job finished after 3s"))
	})

	It("should fan out every record to every emitter", func() {
		second := NewMockEmitter(mockCtrl)

		clock.EXPECT().Now().Return(t0)
		clock.EXPECT().Now().Return(t0.Add(time.Millisecond))
		emitter.EXPECT().Emit(gomock.Any())
		second.EXPECT().Emit(gomock.Any())

		MakeBuilder().
			WithClock(clock).
			WithEmitter(emitter).
			WithEmitter(second).
			Build("fanout").
			Start().
			End()
	})

	It("should measure interleaved spans independently", func() {
		clock.EXPECT().Now().Return(t0)
		clock.EXPECT().Now().Return(t0.Add(1 * time.Millisecond))
		clock.EXPECT().Now().Return(t0.Add(5 * time.Millisecond))
		clock.EXPECT().Now().Return(t0.Add(7 * time.Millisecond))

		var got []Record
		emitter.EXPECT().Emit(gomock.Any()).Do(func(rec Record) {
			got = append(got, rec)
		}).Times(2)

		i := MakeBuilder().WithClock(clock).WithEmitter(emitter).Build("dual")
		first := i.Start()
		second := i.Start()
		first.End()
		second.End()

		Expect(got).To(HaveLen(2))
		Expect(got[0].Elapsed).To(Equal(5 * time.Millisecond))
		Expect(got[1].Elapsed).To(Equal(6 * time.Millisecond))
	})

	It("should panic on a malformed format", func() {
		Expect(func() {
			MakeBuilder().WithFormat("{bogus}").Build("broken")
		}).To(Panic())
	})
})
