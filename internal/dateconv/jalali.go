package dateconv

// Jalali arithmetic based on the 33-year cycle with break years. The
// break table keeps the arithmetic calendar aligned with the astronomical
// vernal equinox for years -61..3177.

var breaks = [...]int{
	-61, 9, 38, 199, 426, 686, 756, 818, 1111, 1181, 1210,
	1635, 2060, 2097, 2192, 2262, 2324, 2394, 2456, 3178,
}

const (
	minJalaliYear = -61
	maxJalaliYear = 3177
)

type jalCalResult struct {
	leap  int
	gy    int
	march int
}

// jalCal returns the Gregorian year in which Farvardin 1 of jy falls, the
// March day of that Farvardin 1 and the number of years since the last
// leap year (0 means jy itself is leap).
func jalCal(jy int) (jalCalResult, bool) {
	if jy < minJalaliYear || jy > maxJalaliYear {
		return jalCalResult{}, false
	}

	gy := jy + 621
	leapJ := -14
	jp := breaks[0]

	var jump int
	for i := 1; i < len(breaks); i++ {
		jm := breaks[i]
		jump = jm - jp
		if jy < jm {
			break
		}
		leapJ += jump/33*8 + (jump%33)/4
		jp = jm
	}
	n := jy - jp

	leapJ += n/33*8 + (n%33+3)/4
	if jump%33 == 4 && jump-n == 4 {
		leapJ++
	}

	leapG := gy/4 - (gy/100+1)*3/4 - 150
	march := 20 + leapJ - leapG

	if jump-n < 6 {
		n = n - jump + (jump+4)/33*33
	}
	leap := ((n+1)%33 - 1) % 4
	if leap == -1 {
		leap = 4
	}

	return jalCalResult{leap: leap, gy: gy, march: march}, true
}

// gregorianToDay converts a proleptic Gregorian date to a Julian Day Number.
func gregorianToDay(gy, gm, gd int) int {
	d := (gy+(gm-8)/6+100100)*1461/4 +
		(153*((gm+9)%12)+2)/5 +
		gd - 34840408
	return d - (gy+100100+(gm-8)/6)/100*3/4 + 752
}

func dayToGregorian(jdn int) (gy, gm, gd int) {
	j := 4*jdn + 139361631
	j += (4*jdn+183187720)/146097*3/4*4 - 3908
	i := (j%1461)/4*5 + 308
	gd = (i%153)/5 + 1
	gm = (i/153)%12 + 1
	gy = j/1461 - 100100 + (8-gm)/6
	return gy, gm, gd
}

func jalaliToDay(jy, jm, jd int) (int, bool) {
	r, ok := jalCal(jy)
	if !ok {
		return 0, false
	}
	return gregorianToDay(r.gy, 3, r.march) + (jm-1)*31 - jm/7*(jm-7) + jd - 1, true
}

func dayToJalali(jdn int) (jy, jm, jd int, ok bool) {
	gy, _, _ := dayToGregorian(jdn)
	jy = gy - 621

	r, ok := jalCal(jy)
	if !ok {
		return 0, 0, 0, false
	}

	k := jdn - gregorianToDay(gy, 3, r.march)
	if k >= 0 {
		if k <= 185 {
			return jy, 1 + k/31, k%31 + 1, true
		}
		k -= 186
	} else {
		jy--
		k += 179
		if r.leap == 1 {
			k++
		}
	}

	return jy, 7 + k/30, k%30 + 1, true
}

// IsLeapJalali reports whether Esfand of jy has 30 days.
func IsLeapJalali(jy int) bool {
	r, ok := jalCal(jy)
	return ok && r.leap == 0
}

func JalaliMonthLength(jy, jm int) int {
	switch {
	case jm <= 6:
		return 31
	case jm <= 11:
		return 30
	case IsLeapJalali(jy):
		return 30
	default:
		return 29
	}
}

func IsValidJalali(jy, jm, jd int) bool {
	return jy >= minJalaliYear && jy <= maxJalaliYear &&
		jm >= 1 && jm <= 12 &&
		jd >= 1 && jd <= JalaliMonthLength(jy, jm)
}

func IsValidGregorian(gy, gm, gd int) bool {
	if gy < 1 || gm < 1 || gm > 12 || gd < 1 {
		return false
	}
	return gd <= gregorianMonthLength(gy, gm)
}

func gregorianMonthLength(gy, gm int) int {
	switch gm {
	case 2:
		if gy%4 == 0 && (gy%100 != 0 || gy%400 == 0) {
			return 29
		}
		return 28
	case 4, 6, 9, 11:
		return 30
	default:
		return 31
	}
}

// JalaliToGregorian converts a Jalali date. ok is false when the date does
// not exist in the Jalali calendar.
func JalaliToGregorian(jy, jm, jd int) (Date, bool) {
	if !IsValidJalali(jy, jm, jd) {
		return Date{}, false
	}
	jdn, ok := jalaliToDay(jy, jm, jd)
	if !ok {
		return Date{}, false
	}
	gy, gm, gd := dayToGregorian(jdn)
	return Date{Year: gy, Month: gm, Day: gd}, true
}

// GregorianToJalali converts a Gregorian date. ok is false when the input
// is not a real Gregorian date or falls outside the supported range.
func GregorianToJalali(gy, gm, gd int) (Date, bool) {
	if !IsValidGregorian(gy, gm, gd) {
		return Date{}, false
	}
	jy, jm, jd, ok := dayToJalali(gregorianToDay(gy, gm, gd))
	if !ok {
		return Date{}, false
	}
	return Date{Year: jy, Month: jm, Day: jd}, true
}
