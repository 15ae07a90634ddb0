package splitter

import (
	"strings"
	"testing"

	"github.com/iov-one/splitter/errors"
)

const (
	anAccount  = "GBRPYHIL2CI3FNQ4BXLFMNDLFJUNPU2HY3ZMFSHONUCEOASW7QC7OX2H"
	aContract  = "CACZL3MGXXP3O6ROMB4Q36ROFULRWD6QARPE3AKWPSWMYZVF2474CBXP"
	wrongShape = "XACZL3MGXXP3O6ROMB4Q36ROFULRWD6QARPE3AKWPSWMYZVF2474CBXP"
)

func TestAddressValidation(t *testing.T) {
	cases := map[string]struct {
		value        string
		wantAccount  bool
		wantContract bool
		wantKind     AddressKind
	}{
		"account": {
			value:       anAccount,
			wantAccount: true,
			wantKind:    AccountAddress,
		},
		"contract": {
			value:        aContract,
			wantContract: true,
			wantKind:     ContractAddress,
		},
		"empty": {
			value:    "",
			wantKind: UnknownAddress,
		},
		"too short": {
			value:    aContract[:55],
			wantKind: UnknownAddress,
		},
		"too long": {
			value:    aContract + "A",
			wantKind: UnknownAddress,
		},
		"unknown prefix": {
			value:    wrongShape,
			wantKind: UnknownAddress,
		},
		"lowercase prefix": {
			value:    "c" + aContract[1:],
			wantKind: UnknownAddress,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if got := IsAccountAddress(tc.value); got != tc.wantAccount {
				t.Errorf("IsAccountAddress: want %v, got %v", tc.wantAccount, got)
			}
			if got := IsContractAddress(tc.value); got != tc.wantContract {
				t.Errorf("IsContractAddress: want %v, got %v", tc.wantContract, got)
			}
			if got := ClassifyAddress(tc.value); got != tc.wantKind {
				t.Errorf("ClassifyAddress: want %v, got %v", tc.wantKind, got)
			}
		})
	}
}

func TestValidateAddressErrors(t *testing.T) {
	if err := ValidateContractAddress(aContract); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if err := ValidateAccountAddress(anAccount); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	err := ValidateContractAddress(anAccount)
	if !errors.ErrAddress.Is(err) {
		t.Fatalf("want address error, got %v", err)
	}
	if !strings.Contains(err.Error(), anAccount) {
		t.Fatalf("offending value must be visible in the message: %s", err)
	}

	if err := ValidateAccountAddress(aContract); !errors.ErrAddress.Is(err) {
		t.Fatalf("want address error, got %v", err)
	}
	if err := ValidateAddress(strings.Repeat("G", 10)); !errors.ErrAddress.Is(err) {
		t.Fatalf("want address error, got %v", err)
	}
	for _, v := range []string{anAccount, aContract} {
		if err := ValidateAddress(v); err != nil {
			t.Fatalf("%s: unexpected error: %s", v, err)
		}
	}
}
