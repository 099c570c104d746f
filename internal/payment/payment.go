// Package payment は出席回数から支払額を導出する。金額は保存せず毎回計算する。
package payment

import (
	"fmt"

	"KMA-backend/internal/attendance"
)

const (
	DefaultRatePerMeeting = 100
	DefaultConvenerBonus  = 50
)

// Amount: 通貨の最小単位ではなく会議手当の単位（整数）
type Amount int64

type Calculator struct {
	RatePerMeeting int64
	ConvenerBonus  int64
	// ContextRates: "subcommittee:travel" / "subcommittee" / "general" / "execo" ごとの単価上書き
	ContextRates map[string]int64
}

func Default() Calculator {
	return Calculator{RatePerMeeting: DefaultRatePerMeeting, ConvenerBonus: DefaultConvenerBonus}
}

func New(rate, bonus int64, contextRates map[string]int64) (Calculator, error) {
	if rate < 0 || bonus < 0 {
		return Calculator{}, fmt.Errorf("payment amounts must be >= 0")
	}
	for k, v := range contextRates {
		if v < 0 {
			return Calculator{}, fmt.Errorf("payment rate for %q must be >= 0", k)
		}
	}
	return Calculator{RatePerMeeting: rate, ConvenerBonus: bonus, ContextRates: contextRates}, nil
}

// Rate: 個別コンテキスト → 種別 → 既定 の順で単価を決める
func (c Calculator) Rate(ctx attendance.Context) int64 {
	if r, ok := c.ContextRates[ctx.String()]; ok {
		return r
	}
	if r, ok := c.ContextRates[string(ctx.Kind)]; ok {
		return r
	}
	return c.RatePerMeeting
}

// AmountFor: meetings × rate + (議長なら bonus)。
// bonus は小委員会の議長に対して、その小委員会の台帳でだけ1回付く。
func (c Calculator) AmountFor(meetings int64, ctx attendance.Context, isConvener bool) Amount {
	amt := meetings * c.Rate(ctx)
	if isConvener && ctx.Kind == attendance.KindSubcommittee {
		amt += c.ConvenerBonus
	}
	return Amount(amt)
}
