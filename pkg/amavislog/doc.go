// Package amavislog summarizes amavisd-new syslog files.
//
// Quick start:
//
//	s, err := amavislog.New(amavislog.WithStartupDetail(true))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	sum, err := s.SummarizeFiles(ctx, "/var/log/mail.log", "/var/log/mail.log.1")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Print(sum.Text())
//
// Each Summarize call starts from empty totals, so a Summarizer can be reused
// for independent runs. It is not safe for concurrent use.
package amavislog
