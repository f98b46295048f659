package questions

var yesNo = []string{"Yes", "No"}

var videoQuestions = []Question{
	Textarea("Share links to your portfolio or showreel (YouTube, Vimeo, Google Drive)."),
	Checkbox("Which editing software are you proficient in?",
		"Adobe Premiere Pro", "Final Cut Pro", "DaVinci Resolve", "After Effects", "Other"),
	Radio("Do you own your own camera gear?", yesNo...),
	Rating("How comfortable are you shooting cars in motion (tracking and rolling shots)?", 1, 5, "Beginner", "Expert"),
	Text("What is your usual turnaround time for a 10-minute review video?"),
}

var contentWriterQuestions = []Question{
	Textarea("Share links to 2-3 published automotive articles you have written."),
	Radio("Which languages can you write in professionally?", "English", "Hindi", "English and Hindi"),
	Rating("Rate your knowledge of the Indian automotive market.", 1, 5, "Basic", "Expert"),
	Textarea("Which car or bike launch from the last year would you write about, and why?"),
}

var socialMediaQuestions = []Question{
	Checkbox("Which platforms have you managed professionally?",
		"Instagram", "YouTube", "Facebook", "X (Twitter)", "LinkedIn"),
	Text("What is the largest audience you have grown or managed (followers)?"),
	Textarea("Describe a campaign or post that performed well and why it worked."),
	Radio("Are you comfortable shooting and editing Reels or Shorts yourself?", yesNo...),
	Rating("Rate your experience with social media analytics tools.", 1, 5, "Beginner", "Expert"),
}

var mediaSalesQuestions = []Question{
	Text("What was your annual sales target in your last role?"),
	Radio("Do you have existing relationships with automotive brands or agencies?", yesNo...),
	Textarea("Describe the largest advertising deal you have closed."),
	Rating("Rate your comfort with cold outreach to new clients.", 1, 5, "Uncomfortable", "Very comfortable"),
}

var internshipQuestions = []Question{
	Radio("Are you currently studying?", yesNo...),
	Radio("Can you commit to a 6-month internship?", yesNo...),
	Radio("This internship offers a fixed stipend. Do you acknowledge this?", "Yes, I acknowledge", "No"),
}

// departmentQuestions ключ - название отдела в нижнем регистре.
// Пустой набор означает, что второй шаг анкеты пропускается.
var departmentQuestions = map[string][]Question{
	"content": {
		Textarea("Share links to content you have produced."),
		Rating("How familiar are you with cars and bikes?", 1, 5, "Casual", "Enthusiast"),
	},
	"marketing": {
		Textarea("Describe a marketing campaign you planned and its results."),
		Checkbox("Which channels have you run campaigns on?", "Search", "Social", "Email", "Events", "Print"),
	},
	"sales": {
		Text("What was your sales target in your last role?"),
		Textarea("Describe a deal you are proud of closing."),
	},
	"design": {
		Textarea("Share a link to your design portfolio."),
		Checkbox("Which tools do you use daily?", "Figma", "Photoshop", "Illustrator", "InDesign", "Blender"),
	},
	"technology": {
		Textarea("Share your GitHub profile or a project you built."),
		Rating("Rate your experience with web development.", 1, 5, "Beginner", "Expert"),
	},
	"operations": {
		Textarea("Describe a process you improved in a previous role."),
	},
	"finance": {
		Radio("Are you a qualified or semi-qualified accountant?", yesNo...),
	},
	"hr": {
		Textarea("Describe your experience with end-to-end hiring."),
	},
	"administration": {},
}

var genericQuestions = []Question{
	Textarea("Why are you a good fit for this role?"),
	Text("How soon can you join?"),
}
