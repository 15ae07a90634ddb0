package distribution

import (
	"math/rand"
	"testing"

	"github.com/iov-one/splitter"
	"github.com/iov-one/splitter/amount"
	"github.com/iov-one/splitter/errors"
	"github.com/iov-one/splitter/ledgertest/assert"
	. "github.com/smartystreets/goconvey/convey"
)

func TestCalculate(t *testing.T) {
	cases := map[string]struct {
		balance     string
		shares      []uint32
		wantPercent []string
		wantAmount  []string
		wantDust    string
		wantErr     *errors.Error
	}{
		"one to three": {
			balance:     "100",
			shares:      []uint32{1, 3},
			wantPercent: []string{"25.00", "75.00"},
			wantAmount:  []string{"25.0000000", "75.0000000"},
			wantDust:    "0.0000000",
		},
		"one one two": {
			balance:     "10",
			shares:      []uint32{1, 1, 2},
			wantPercent: []string{"25.00", "25.00", "50.00"},
			wantAmount:  []string{"2.5000000", "2.5000000", "5.0000000"},
			wantDust:    "0.0000000",
		},
		"thirds": {
			balance:     "1",
			shares:      []uint32{1, 1, 1},
			wantPercent: []string{"33.34", "33.33", "33.33"},
			wantAmount:  []string{"0.3333333", "0.3333333", "0.3333333"},
			wantDust:    "0.0000001",
		},
		"largest remainder wins": {
			balance:     "0",
			shares:      []uint32{1, 2, 3},
			wantPercent: []string{"16.67", "33.33", "50.00"},
			wantAmount:  []string{"0.0000000", "0.0000000", "0.0000000"},
			wantDust:    "0.0000000",
		},
		"single recipient": {
			balance:     "42.4242424",
			shares:      []uint32{7},
			wantPercent: []string{"100.00"},
			wantAmount:  []string{"42.4242424"},
			wantDust:    "0.0000000",
		},
		"amount smaller than share count": {
			balance:     "0.0000001",
			shares:      []uint32{1, 1},
			wantPercent: []string{"50.00", "50.00"},
			wantAmount:  []string{"0.0000000", "0.0000000"},
			wantDust:    "0.0000001",
		},
		"zero total share weight": {
			balance: "10",
			shares:  []uint32{0, 0},
			wantErr: errors.ErrInput,
		},
		"no shares": {
			balance:     "10",
			shares:      []uint32{},
			wantPercent: []string{},
			wantAmount:  []string{},
			wantDust:    "10.0000000",
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			d, err := Calculate(amount.MustParse(tc.balance), tc.shares)
			if tc.wantErr != nil {
				assert.IsErr(t, tc.wantErr, err)
				return
			}
			assert.Nil(t, err)

			percents := make([]string, len(d.Entries))
			amounts := make([]string, len(d.Entries))
			for i, e := range d.Entries {
				percents[i] = e.Percentage.String()
				amounts[i] = e.Amount.String()
				assert.Equal(t, tc.shares[i], e.Share)
			}
			assert.Equal(t, tc.wantPercent, percents)
			assert.Equal(t, tc.wantAmount, amounts)
			assert.Equal(t, tc.wantDust, d.Dust.String())
		})
	}
}

func TestForConfig(t *testing.T) {
	conf := splitter.Config{
		Token:      "CAH6MM2HE5RAQFSOGRC5N7OWHUZDOMAV2B3XIPMXGXLS4T46Z3QMBDDM",
		Recipients: []string{"GDMMWIWYZ6KC5EB3JP23IFQJKKWU5GU25BTMJDERHUGLTCC6JIX3FJVY", "CDJIU6UAZHU7LUU7W7I2UBXESLOAINQLMG3MNF2DCIDJLTUC64CTSJGL"},
		Shares:     []uint32{1, 3},
	}
	d, err := ForConfig(conf, amount.MustParse("100"))
	assert.Nil(t, err)
	assert.Equal(t, conf.Recipients[0], d.Entries[0].Recipient)
	assert.Equal(t, conf.Recipients[1], d.Entries[1].Recipient)
	assert.Equal(t, "75.0000000", d.Entries[1].Amount.String())

	conf.Shares = []uint32{1}
	_, err = ForConfig(conf, amount.MustParse("100"))
	assert.IsErr(t, errors.ErrInput, err)
}

func TestDistributionProperties(t *testing.T) {
	r := rand.New(rand.NewSource(4242))

	randomShares := func() []uint32 {
		shares := make([]uint32, 1+r.Intn(splitter.MaxRecipients))
		for i := range shares {
			if r.Intn(4) == 0 {
				shares[i] = r.Uint32()%1000000 + 1
			} else {
				shares[i] = uint32(r.Intn(100) + 1)
			}
		}
		return shares
	}
	randomBalance := func() amount.Amount {
		return amount.FromMinor(r.Uint64() >> uint(r.Intn(64)))
	}

	type sample struct {
		balance amount.Amount
		shares  []uint32
		result  Distribution
	}
	samples := make([]sample, 500)
	for i := range samples {
		samples[i].balance = randomBalance()
		samples[i].shares = randomShares()
	}

	Convey("Given random balances and share weights", t, func() {
		for i, s := range samples {
			d, err := Calculate(s.balance, s.shares)
			So(err, ShouldBeNil)
			So(d.Entries, ShouldHaveLength, len(s.shares))
			samples[i].result = d
		}

		Convey("amounts never exceed the balance", func() {
			for _, s := range samples {
				sum := amount.Zero
				for _, e := range s.result.Entries {
					var err error
					sum, err = sum.Add(e.Amount)
					So(err, ShouldBeNil)
				}
				So(sum.Cmp(s.balance), ShouldBeLessThanOrEqualTo, 0)
				total, err := sum.Add(s.result.Dust)
				So(err, ShouldBeNil)
				So(total.Equals(s.balance), ShouldBeTrue)
				So(s.result.Distributed().Equals(sum), ShouldBeTrue)
			}
		})

		Convey("dust is smaller than one minor unit per recipient", func() {
			for _, s := range samples {
				So(s.result.Dust.Cmp(amount.FromMinor(uint64(len(s.shares)))), ShouldBeLessThan, 0)
			}
		})

		Convey("percentages add up to exactly one hundred", func() {
			for _, s := range samples {
				var sum Percentage
				for _, e := range s.result.Entries {
					sum += e.Percentage
				}
				So(sum, ShouldEqual, Whole)
			}
		})

		Convey("calculation is deterministic", func() {
			for _, s := range samples {
				again, err := Calculate(s.balance, s.shares)
				So(err, ShouldBeNil)
				So(again, ShouldResemble, s.result)
			}
		})
	})

	Convey("Given a zero balance", t, func() {
		d, err := Calculate(amount.Zero, randomShares())
		So(err, ShouldBeNil)

		Convey("every amount is zero", func() {
			for _, e := range d.Entries {
				So(e.Amount.String(), ShouldEqual, "0.0000000")
			}
			So(d.Dust.IsZero(), ShouldBeTrue)
		})
	})

	Convey("Given a share list", t, func() {
		shares := []uint32{5, 1, 9}
		_, err := Calculate(amount.MustParse("1"), shares)
		So(err, ShouldBeNil)

		Convey("it is not modified", func() {
			So(shares, ShouldResemble, []uint32{5, 1, 9})
		})
	})
}
