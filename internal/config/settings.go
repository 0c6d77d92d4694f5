// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config defines the typed settings schema the experiment engine is
// built from. Parsing an on-disk XML settings document into this tree is out
// of scope; the struct tags document the original field names for anyone
// wiring up a decoder, but no decoding happens in this package.
package config

// DerivedSignalSpec mirrors one vSignals/signal entry.
type DerivedSignalSpec struct {
	Name                   string    `xml:"sSignalName"`
	BandpassLowHz          float64   `xml:"fBandpassLowHz"`
	BandpassHighHz         float64   `xml:"fBandpassHighHz"`
	SpatialFilterMatrix    []float64 `xml:"SpatialFilterMatrix"`
	ROILabel               []string  `xml:"lROILabel"`
	TemporalType           string    `xml:"sTemporalType"`           // envdetector | filter | identity
	TemporalFilterType     string    `xml:"sTemporalFilterType"`     // fft | complexdem | butter | cfir
	TemporalSmootherType   string    `xml:"sTemporalSmootherType"`   // exp | savgol
	FFTWindowSize          int       `xml:"fFFTWindowSize"`
	SmoothingFactor        float64   `xml:"fSmoothingFactor"`
	TemporalFilterButterOrder int    `xml:"fTemporalFilterButterOrder"`
	DelayMs                int       `xml:"iDelayMs"`
	DisableSpectrumEvaluation bool   `xml:"bDisableSpectrumEvaluation"`
	BCIMode                bool      `xml:"bBCIMode"`
	SmoothingWindow        int       `xml:"dSmoothingWindow"`
	SmoothingEnabled       bool      `xml:"bSmoothingEnabled"`
	STCMode                bool      `xml:"bSTCMode"`
}

func (s *DerivedSignalSpec) Defaults() {
	if s.TemporalType == "" {
		s.TemporalType = "envdetector"
	}
	if s.TemporalFilterType == "" {
		s.TemporalFilterType = "fft"
	}
	if s.TemporalSmootherType == "" {
		s.TemporalSmootherType = "exp"
	}
	if s.FFTWindowSize == 0 {
		s.FFTWindowSize = 128
	}
	if s.SmoothingFactor == 0 {
		s.SmoothingFactor = 0.1
	}
	if s.TemporalFilterButterOrder == 0 {
		s.TemporalFilterButterOrder = 4
	}
}

// CompositeSignalSpec mirrors one vSignals/composite entry.
type CompositeSignalSpec struct {
	Name       string `xml:"sSignalName"`
	Expression string `xml:"sExpression"`
}

// ProtocolSpec mirrors one vProtocols entry; fields specific to a minority
// of protocol types are left at their zero value when unused.
type ProtocolSpec struct {
	Name                  string  `xml:"sProtocolName"`
	Type                  string  `xml:"sFb_type"`
	DurationS             float64 `xml:"fDuration"`
	RandomOverTimeS       float64 `xml:"fRandomOverTime"`
	UpdateStatistics      bool    `xml:"bUpdateStatistics"`
	StatisticsType        string  `xml:"sStatisticsType"`
	MockSignalFilePath    string  `xml:"sMockSignalFilePath"`
	MockSignalFileDataset string  `xml:"sMockSignalFileDataset"`
	ShowReward            bool    `xml:"bShowReward"`
	ShowPercentScoreAfter bool    `xml:"bShowPcScoreAfter"`
	RewardSignal          string  `xml:"sRewardSignal"`
	RewardThreshold       float64 `xml:"bRewardThreshold"`
	MockRewardThreshold   bool    `xml:"bMockRewardThreshold"`
	MockPrevious          int     `xml:"iMockPrevious"`
	DropOutliers          int     `xml:"iDropOutliers"`
	PauseAfter            bool    `xml:"bPauseAfter"`
	BeepAfter             bool    `xml:"bBeepAfter"`
	ReverseMockPrevious   bool    `xml:"bReverseMockPrevious"`
	RandomMockPrevious    bool    `xml:"bRandomMockPrevious"`
	MovementSignal        string  `xml:"sMSignal"`
	MockSource            bool    `xml:"bMockSource"`
	AutoBCIFit            bool    `xml:"bAutoBCIFit"`
	Probe                 bool    `xml:"bProbe"`
	ProbeDurationMs       int     `xml:"iProbeDur"`
	ProbeLocation         string  `xml:"sProbeLoc"` // LEFT | RIGHT | RAND
	PosnerTest            bool    `xml:"bPosnerTest"`
	EnablePosner          bool    `xml:"bEnablePosner"`
	EyeRange              float64 `xml:"fEyeRange"`

	Text                string  `xml:"cString"`
	FixationCrossColor  string  `xml:"tFixationCrossColour"`
	BlinkThreshold      float64 `xml:"fBlinkThreshold"`
	MovementThreshold   float64 `xml:"fMSignalThreshold"`
	RandomBound         int     `xml:"iRandomBound"`
	VideoPath           string  `xml:"sVideoPath"`
}

// GroupSpec mirrors one vPGroups entry.
type GroupSpec struct {
	Name       string `xml:"sName"`
	List       string `xml:"sList"`       // comma-separated protocol/group names
	NumberList string `xml:"sNumberList"` // comma-separated repeat counts
	Shuffle    bool   `xml:"bShuffle"`
	SplitBy    string `xml:"sSplitBy"`
}

// AcquisitionSpec mirrors the inlet-related settings fields.
type AcquisitionSpec struct {
	InletType        string `xml:"sInletType"` // lsl | lsl_from_file | lsl_generator | ftbuffer
	StreamName       string `xml:"sStreamName"`
	Reference        string `xml:"sReference"`
	ReferenceSub     string `xml:"sReferenceSub"`
	FTHostnamePort   string `xml:"sFTHostnamePort"`
	PrefilterBand    string `xml:"sPrefilterBand"`
	DC               bool   `xml:"bDC"`
	EventsStreamName string `xml:"sEventsStreamName"`
	RawDataFilePath  string `xml:"sRawDataFilePath"`
}

// GlobalFlags mirrors the experiment-wide settings fields.
type GlobalFlags struct {
	ShowSubjectWindow  bool    `xml:"bShowSubjectWindow"`
	PlotRaw            bool    `xml:"bPlotRaw"`
	PlotSignals        bool    `xml:"bPlotSignals"`
	PlotSourceSpace    bool    `xml:"bPlotSourceSpace"`
	ShowPhotoRectangle bool    `xml:"bShowPhotoRectangle"`
	UseBCThreshold     bool    `xml:"bUseBCThreshold"`
	BCThresholdAdd     float64 `xml:"dBCThresholdAdd"`
	UseAAIThreshold    bool    `xml:"bUseAAIThreshold"`
	AAIThresholdMean   float64 `xml:"dAAIThresholdMean"`
	AAIThresholdMax    float64 `xml:"dAAIThresholdMax"`
	RewardPeriodS      float64 `xml:"fRewardPeriodS"`
	UseEyeTracking     bool    `xml:"bUseEyeTracking"`
	ExperimentName     string  `xml:"sExperimentName"`
}

func (g *GlobalFlags) Defaults() {
	if g.RewardPeriodS == 0 {
		g.RewardPeriodS = 2
	}
	if g.ExperimentName == "" {
		g.ExperimentName = "experiment"
	}
}

// Settings is the full experiment definition tree.
type Settings struct {
	Signals    []DerivedSignalSpec
	Composites []CompositeSignalSpec
	Protocols  []ProtocolSpec
	Sequence   []string
	Groups     []GroupSpec
	Acquisition AcquisitionSpec
	Global      GlobalFlags
}

func (s *Settings) Defaults() {
	for i := range s.Signals {
		s.Signals[i].Defaults()
	}
	s.Global.Defaults()
}
