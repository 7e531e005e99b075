// Copyright (c) 2019,CAO HONGJU. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fritter

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
)

// defaultScheduler is a package-level Scheduler over the real wall
// clock, for callers that just want "run this later" without wiring up
// their own Driver (mirroring the teacher's package-level defaultSchd).
var (
	defaultDriver    = NewRealSleepDriver()
	defaultScheduler = NewScheduler[RealTime, RealSpan, WorkFunc](defaultDriver)
)

func init() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	go handleSignal(c)
}

func handleSignal(c <-chan os.Signal) {
	for sig := range c {
		switch sig {
		case syscall.SIGTERM, syscall.SIGINT:
			logrus.WithField("comp", "fritter").Infof("default scheduler received signal %q, exiting", sig.String())
			os.Exit(0)
		}
	}
}

// At posts work to the default scheduler to run at when.
func At(when time.Time, work func()) *FutureCall[RealTime, RealSpan, WorkFunc] {
	return defaultScheduler.CallAt(RealTime(when), WorkFunc(work))
}

// After posts work to the default scheduler to run once, after delay.
func After(delay time.Duration, work func()) *FutureCall[RealTime, RealSpan, WorkFunc] {
	return At(time.Now().Add(delay), work)
}

// Every runs work repeatedly on the default scheduler, every period,
// starting one period from now.
func Every(period time.Duration, work RepeaterFunc) (*Stopper[RealTime, RealSpan, WorkFunc], error) {
	rule, err := NewEvery[RealTime](RealSpan(period))
	if err != nil {
		return nil, err
	}
	return Repeatedly[RealTime, RealSpan](defaultScheduler, rule, defaultScheduler.Now(), work), nil
}

// Cron runs work repeatedly on the default scheduler, according to the
// given cron expression.
func Cron(expression string, work RepeaterFunc) (*Stopper[RealTime, RealSpan, WorkFunc], error) {
	rule, err := NewCronRule(expression)
	if err != nil {
		return nil, err
	}
	return Repeatedly[RealTime, RealSpan](defaultScheduler, cronRuleOverRealTime{rule}, defaultScheduler.Now(), work), nil
}

// cronRuleOverRealTime adapts a CronRule (RecurrenceRule[time.Time]) to
// RecurrenceRule[RealTime], the default scheduler's time type.
type cronRuleOverRealTime struct {
	rule *CronRule
}

func (c cronRuleOverRealTime) Next(after, reference RealTime) RealTime {
	return RealTime(c.rule.Next(time.Time(after), time.Time(reference)))
}

func (c cronRuleOverRealTime) StepsBetween(earlier, later RealTime) uint64 {
	return c.rule.StepsBetween(time.Time(earlier), time.Time(later))
}

// Count returns the number of calls currently queued on the default
// scheduler.
func Count() int {
	return defaultScheduler.Count()
}
