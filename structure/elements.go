/*
 * elements.go, part of dftpif.
 *
 * Copyright 2026 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package structure

//Elements in order of atomic number, starting from H (Z=1).
//Masses in atomic mass units.
var elements = []struct {
	symbol string
	mass   float64
}{
	{"H", 1.008},   //1
	{"He", 4.0026}, //2
	{"Li", 6.94},   //3
	{"Be", 9.0122}, //4
	{"B", 10.81},   //5
	{"C", 12.011},  //6
	{"N", 14.007},  //7
	{"O", 15.999},  //8
	{"F", 18.998},  //9
	{"Ne", 20.180}, //10
	{"Na", 22.990}, //11
	{"Mg", 24.305}, //12
	{"Al", 26.982}, //13
	{"Si", 28.085}, //14
	{"P", 30.974},  //15
	{"S", 32.06},   //16
	{"Cl", 35.45},  //17
	{"Ar", 39.948}, //18
	{"K", 39.098},  //19
	{"Ca", 40.078}, //20
	{"Sc", 44.956}, //21
	{"Ti", 47.867}, //22
	{"V", 50.942},  //23
	{"Cr", 51.996}, //24
	{"Mn", 54.938}, //25
	{"Fe", 55.845}, //26
	{"Co", 58.933}, //27
	{"Ni", 58.693}, //28
	{"Cu", 63.546}, //29
	{"Zn", 65.38},  //30
	{"Ga", 69.723}, //31
	{"Ge", 72.630}, //32
	{"As", 74.922}, //33
	{"Se", 78.971}, //34
	{"Br", 79.904}, //35
	{"Kr", 83.798}, //36
	{"Rb", 85.468}, //37
	{"Sr", 87.62},  //38
	{"Y", 88.906},  //39
	{"Zr", 91.224}, //40
	{"Nb", 92.906}, //41
	{"Mo", 95.95},  //42
	{"Tc", 98},     //43
	{"Ru", 101.07}, //44
	{"Rh", 102.91}, //45
	{"Pd", 106.42}, //46
	{"Ag", 107.87}, //47
	{"Cd", 112.41}, //48
	{"In", 114.82}, //49
	{"Sn", 118.71}, //50
	{"Sb", 121.76}, //51
	{"Te", 127.60}, //52
	{"I", 126.90},  //53
	{"Xe", 131.29}, //54
	{"Cs", 132.91}, //55
	{"Ba", 137.33}, //56
	{"La", 138.91}, //57
	{"Ce", 140.12}, //58
	{"Pr", 140.91}, //59
	{"Nd", 144.24}, //60
	{"Pm", 145},    //61
	{"Sm", 150.36}, //62
	{"Eu", 151.96}, //63
	{"Gd", 157.25}, //64
	{"Tb", 158.93}, //65
	{"Dy", 162.50}, //66
	{"Ho", 164.93}, //67
	{"Er", 167.26}, //68
	{"Tm", 168.93}, //69
	{"Yb", 173.05}, //70
	{"Lu", 174.97}, //71
	{"Hf", 178.49}, //72
	{"Ta", 180.95}, //73
	{"W", 183.84},  //74
	{"Re", 186.21}, //75
	{"Os", 190.23}, //76
	{"Ir", 192.22}, //77
	{"Pt", 195.08}, //78
	{"Au", 196.97}, //79
	{"Hg", 200.59}, //80
	{"Tl", 204.38}, //81
	{"Pb", 207.2},  //82
	{"Bi", 208.98}, //83
	{"Po", 209},    //84
	{"At", 210},    //85
	{"Rn", 222},    //86
	{"Fr", 223},    //87
	{"Ra", 226},    //88
	{"Ac", 227},    //89
	{"Th", 232.04}, //90
	{"Pa", 231.04}, //91
	{"U", 238.03},  //92
	{"Np", 237},    //93
	{"Pu", 244},    //94
	{"Am", 243},    //95
	{"Cm", 247},    //96
	{"Bk", 247},    //97
	{"Cf", 251},    //98
	{"Es", 252},    //99
	{"Fm", 257},    //100
	{"Md", 258},    //101
	{"No", 259},    //102
	{"Lr", 262},    //103
}

var symbolMass = func() map[string]float64 {
	m := make(map[string]float64, len(elements))
	for _, e := range elements {
		m[e.symbol] = e.mass
	}
	return m
}()

//Mass returns the atomic mass of the element with the given symbol, and false if
//the symbol is unknown.
func Mass(symbol string) (float64, bool) {
	m, ok := symbolMass[symbol]
	return m, ok
}

//Symbol returns the symbol of the element with atomic number z, or "" if z is out of range.
func Symbol(z int) string {
	if z < 1 || z > len(elements) {
		return ""
	}
	return elements[z-1].symbol
}

//IsElement reports whether s is a known element symbol.
func IsElement(s string) bool {
	_, ok := symbolMass[s]
	return ok
}
