/*
 * quality.go, part of dftpif.
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

package driver

import (
	"context"
	"path/filepath"

	pif "github.com/rmera/dftpif"
	"github.com/rmera/dftpif/dft"
	"github.com/rmera/dftpif/quality"
)

// Reporter scores the files of a calculation. *quality.Client is a Reporter.
type Reporter interface {
	Validate(ctx context.Context, files map[string]string, inline bool) (quality.Report, error)
}

// QualityReportName is the name of the property that carries the score.
const QualityReportName = "quality_report"

// attachQualityReport asks for a report on the files of x and adds it to sys.
// Without a Sink in opts, the report is written next to the output file of x.
// Only extractors that know which files the service needs get a report. A report that
// cannot be obtained is logged, and sys is left as it was.
func attachQualityReport(ctx context.Context, x dft.Extractor, sys *pif.ChemicalSystem, opts Options) {
	v, ok := x.(dft.Validator)
	if !ok {
		opts.narrate("no quality report for this code", "code", x.Name())
		return
	}
	files := v.ValidationFiles()
	if len(files) == 0 {
		opts.narrate("files needed for the quality report are missing", "code", x.Name())
		return
	}
	rep := opts.Reporter
	if rep == nil {
		rep = quality.NewClient("")
	}
	report, err := rep.Validate(ctx, files, opts.Inline)
	if err != nil {
		opts.logger().Warn("unable to generate quality report", "err", err)
		return
	}
	if opts.Inline {
		sys.QualityReport = []byte(report.JSON)
		return
	}
	sink := opts.Sink
	if sink == nil {
		sink = quality.FileSink{Dir: filepath.Dir(x.Context().Output)}
	}
	ref, err := sink.Store(ctx, quality.ReportName, []byte(report.Text))
	if err != nil {
		opts.logger().Warn("unable to store quality report", "err", err)
		return
	}
	p := pif.FileProperty(QualityReportName, ref)
	p.Quantity = pif.Scalar(report.Score, "")
	sys.Properties = append(sys.Properties, p)
}
