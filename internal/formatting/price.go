package formatting

import "fmt"

// FormatPrice форматирует цену из эре в кроны
func FormatPrice(priceInOre int64) string {
	return fmt.Sprintf("%d.%02d kr", priceInOre/100, abs(priceInOre%100))
}

// FormatPriceShort форматирует цену без эре если они равны 0
func FormatPriceShort(priceInOre int64) string {
	if priceInOre%100 == 0 {
		return fmt.Sprintf("%d kr", priceInOre/100)
	}
	return FormatPrice(priceInOre)
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
